package handlers

import (
	"reflect"
	"time"
)

// RegisterDefaults installs the concrete scalar handlers this module ships
// (spec.md's "concrete implementation of primitive per-type codecs" is an
// external collaborator in the distilled spec; SPEC_FULL.md §3.1 adds a
// minimal real set so the registry and dispatch logic are exercisable).
func RegisterDefaults(r *Registry) error {
	if err := r.RegisterForType(BoolHandler, reflect.TypeOf(bool(false))); err != nil {
		return err
	}
	if err := r.RegisterForType(Int2Handler, reflect.TypeOf(int16(0))); err != nil {
		return err
	}
	if err := r.RegisterForType(Int4Handler, reflect.TypeOf(int32(0))); err != nil {
		return err
	}
	if err := r.RegisterForType(Int8Handler, reflect.TypeOf(int64(0))); err != nil {
		return err
	}
	if err := r.RegisterForType(Float4Handler, reflect.TypeOf(float32(0))); err != nil {
		return err
	}
	if err := r.RegisterForType(Float8Handler, reflect.TypeOf(float64(0))); err != nil {
		return err
	}
	if err := r.RegisterForType(UUIDHandler, reflect.TypeOf([16]byte{})); err != nil {
		return err
	}
	if err := r.RegisterForType(TimestampHandler, reflect.TypeOf(time.Time{})); err != nil {
		return err
	}
	if err := r.Register(TimestamptzHandler); err != nil {
		return err
	}
	if err := r.RegisterForType(TextHandler, reflect.TypeOf("")); err != nil {
		return err
	}
	if err := r.RegisterForType(ByteaHandler, reflect.TypeOf([]byte(nil))); err != nil {
		return err
	}
	return nil
}
