// Command bindcat drives a BindMessageWriter from flag-supplied parameter
// values and writes the framed Bind message to a file or a live backend
// connection. It is the demo wiring for this module's codec core, grounded
// on the teacher's cmd/rift CLI (cobra root command, persistent config
// flag, SilenceUsage/SilenceErrors).
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/riftdata/pgwirecore/internal/array"
	"github.com/riftdata/pgwirecore/internal/bind"
	"github.com/riftdata/pgwirecore/internal/config"
	"github.com/riftdata/pgwirecore/internal/driverloop"
	"github.com/riftdata/pgwirecore/internal/handlers"
	"github.com/riftdata/pgwirecore/internal/param"
	"github.com/riftdata/pgwirecore/internal/transport"
	"github.com/riftdata/pgwirecore/internal/wire"
	"github.com/riftdata/pgwirecore/pkg/logger"
)

var (
	cfgFile   string
	verbose   bool
	portal    string
	statement string
	paramArgs []string
	outFile   string
	connAddr  string
	demoDSN   string
)

var cfg *config.Config

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:           "bindcat",
	Short:         "Encode a PostgreSQL Bind message from flag-supplied parameters",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if verbose {
			logger.SetLevel("debug")
		} else {
			logger.SetLevel(cfg.Log.Level)
		}
		return nil
	},
}

var bindCmd = &cobra.Command{
	Use:   "bind",
	Short: "Encode one Bind message and write the framed bytes to --out or --conn",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBind()
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Bootstrap the handler registry from a live backend and print an encoded Bind message",
	Long: `demo opens a pgxpool.Pool against --dsn and reads the backend's
integer_datetimes runtime parameter to bootstrap the handler registry the
same way a real extended-query client would. It then encodes a Bind message
built from --param/--portal/--statement and prints the framed bytes to
stdout for inspection; it does not open a second connection to send them
to the backend, since this module does not implement connection startup
or authentication.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	bindCmd.Flags().StringVar(&portal, "portal", "", "portal name")
	bindCmd.Flags().StringVar(&statement, "statement", "", "prepared statement name")
	bindCmd.Flags().StringArrayVar(&paramArgs, "param", nil, "parameter as pgtype:value, repeatable")
	bindCmd.Flags().StringVar(&outFile, "out", "", "write framed bytes to this file instead of stdout")
	bindCmd.Flags().StringVar(&connAddr, "conn", "", "host:port of a live backend to send the message to")
	rootCmd.AddCommand(bindCmd)

	demoCmd.Flags().StringVar(&demoDSN, "dsn", "", "postgres connection string")
	demoCmd.Flags().StringVar(&portal, "portal", "", "portal name")
	demoCmd.Flags().StringVar(&statement, "statement", "", "prepared statement name")
	demoCmd.Flags().StringArrayVar(&paramArgs, "param", nil, "parameter as pgtype:value, repeatable")
	rootCmd.AddCommand(demoCmd)
}

func buildRegistry() *handlers.Registry {
	r := handlers.NewRegistry()
	if err := handlers.RegisterDefaults(r); err != nil {
		logger.Fatal("registering default handlers", "err", err)
	}
	if err := array.RegisterDefaults(r); err != nil {
		logger.Fatal("registering array handlers", "err", err)
	}
	return r
}

// parseParam turns "pgtype:value" into a bound Parameter. A pgtype prefixed
// with "_" (e.g. "_int4:1,2,3") binds a 1-D array of the element type,
// exercising the registry's array handlers from the command line as well as
// the test suite.
func parseParam(r *handlers.Registry, spec string) (*param.Parameter, error) {
	typ, raw, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, fmt.Errorf("invalid --param %q, want pgtype:value", spec)
	}

	if elemType, ok := strings.CutPrefix(typ, "_"); ok {
		return parseArrayParam(r, typ, elemType, raw)
	}

	value, err := parseScalar(typ, raw)
	if err != nil {
		return nil, fmt.Errorf("parsing --param %q: %w", spec, err)
	}
	return param.Bind(r, typ, "", value, false)
}

func parseScalar(typ, raw string) (any, error) {
	switch typ {
	case "bool":
		return strconv.ParseBool(raw)
	case "int2":
		v, err := strconv.ParseInt(raw, 10, 16)
		return int16(v), err
	case "int4":
		v, err := strconv.ParseInt(raw, 10, 32)
		return int32(v), err
	case "int8":
		return strconv.ParseInt(raw, 10, 64)
	case "float4":
		v, err := strconv.ParseFloat(raw, 32)
		return float32(v), err
	case "float8":
		return strconv.ParseFloat(raw, 64)
	case "text":
		return raw, nil
	case "bytea":
		return []byte(raw), nil
	default:
		return nil, fmt.Errorf("unsupported --param type %q", typ)
	}
}

// parseArrayParam parses a comma-separated 1-D array literal, e.g.
// "1,2,NULL,4" for "_int4", into an array.Value bound against the array
// handler registered under the given PG array type name.
func parseArrayParam(r *handlers.Registry, arrayType, elemType, raw string) (*param.Parameter, error) {
	elems := strings.Split(raw, ",")
	values := make([]any, len(elems))
	for i, e := range elems {
		if e == "NULL" {
			values[i] = nil
			continue
		}
		v, err := parseScalar(elemType, e)
		if err != nil {
			return nil, fmt.Errorf("parsing array element %q: %w", e, err)
		}
		values[i] = v
	}
	v := array.Value{
		Dims:     []array.Dimension{{Length: int32(len(values)), LowerBound: 1}},
		Elements: values,
	}
	return param.Bind(r, arrayType, "", v, false)
}

func runBind() error {
	r := buildRegistry()
	if err := r.Bootstrap(map[string]string{"integer_datetimes": "on"}); err != nil {
		return fmt.Errorf("bootstrapping registry: %w", err)
	}

	params := make([]*param.Parameter, 0, len(paramArgs))
	for _, spec := range paramArgs {
		p, err := parseParam(r, spec)
		if err != nil {
			return err
		}
		params = append(params, p)
	}

	writer, err := bind.NewWriter(portal, statement, params, bind.ResultFormat{AllUnknown: true})
	if err != nil {
		return fmt.Errorf("building Bind writer: %w", err)
	}

	buf := wire.NewByteBuffer(cfg.Codec.BufferCapacity)

	switch {
	case connAddr != "":
		conn, err := net.DialTimeout("tcp", connAddr, 10*time.Second)
		if err != nil {
			return fmt.Errorf("dialing %s: %w", connAddr, err)
		}
		defer conn.Close()
		t := transport.NewConn(conn)
		if err := driverloop.RunWrite(writer, buf, t); err != nil {
			return fmt.Errorf("sending Bind message: %w", err)
		}
	case outFile != "":
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outFile, err)
		}
		defer f.Close()
		t := transport.NewFileWriter(f)
		if err := driverloop.RunWrite(writer, buf, t); err != nil {
			return fmt.Errorf("writing Bind message: %w", err)
		}
	default:
		t := transport.NewFileWriter(os.Stdout)
		if err := driverloop.RunWrite(writer, buf, t); err != nil {
			return fmt.Errorf("writing Bind message: %w", err)
		}
	}

	logger.Info("encoded Bind message", "length", writer.MessageLength(), "params", len(params))
	return nil
}

func runDemo(ctx context.Context) error {
	if demoDSN == "" {
		return fmt.Errorf("--dsn is required")
	}

	pool, err := pgxpool.New(ctx, demoDSN)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", demoDSN, err)
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	integerDatetimes := conn.Conn().PgConn().ParameterStatus("integer_datetimes")
	conn.Release()

	r := buildRegistry()
	if err := r.Bootstrap(map[string]string{"integer_datetimes": integerDatetimes}); err != nil {
		return fmt.Errorf("bootstrapping registry from live backend: %w", err)
	}

	params := make([]*param.Parameter, 0, len(paramArgs))
	for _, spec := range paramArgs {
		p, err := parseParam(r, spec)
		if err != nil {
			return err
		}
		params = append(params, p)
	}

	writer, err := bind.NewWriter(portal, statement, params, bind.ResultFormat{AllUnknown: true})
	if err != nil {
		return fmt.Errorf("building Bind writer: %w", err)
	}

	buf := wire.NewByteBuffer(cfg.Codec.BufferCapacity)
	t := transport.NewFileWriter(os.Stdout)
	if err := driverloop.RunWrite(writer, buf, t); err != nil {
		return fmt.Errorf("encoding Bind message: %w", err)
	}

	logger.Info("encoded Bind message using registry bootstrapped from live backend",
		"integer_datetimes", integerDatetimes, "length", writer.MessageLength())
	return nil
}
