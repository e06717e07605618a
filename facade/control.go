// File: facade/control.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread affinity and priority for the calling thread, validated against the
// snapshot.

package facade

import (
	"github.com/momentics/hwtopo/api"
	"go.uber.org/zap"
)

// PinThreadToCore pins the calling thread to logical processor lp. lp must be
// present in the snapshot.
func (e *Engine) PinThreadToCore(lp int) error {
	s, err := e.Snapshot()
	if err != nil {
		return err
	}
	if !s.HasLogicalProcessor(lp) {
		return api.Errorf(api.ErrCodeInvalidIndex, "logical processor %d not present", lp).
			WithContext("logical_processors", s.TotalLogicalProcessors)
	}
	err = e.ctrl.SetAffinity(lp)
	e.observe("pin", err, zap.Int("lp", lp))
	return err
}

// PinThreadToCoreType restricts the calling thread to the logical processors
// of every core of type t.
func (e *Engine) PinThreadToCoreType(t api.CoreType) error {
	s, err := e.Snapshot()
	if err != nil {
		return err
	}
	lps := s.LogicalProcessorsOfType(t)
	if len(lps) == 0 {
		return api.Errorf(api.ErrCodeInvalidIndex, "no %s cores", t.Description())
	}
	err = e.ctrl.SetAffinitySet(lps)
	e.observe("pin_type", err, zap.Stringer("type", t))
	return err
}

// SetThreadPriority sets the scheduling priority of the calling thread.
func (e *Engine) SetThreadPriority(p api.ThreadPriority) error {
	if e.closed.Load() {
		return api.ErrEngineClosed
	}
	if !p.Valid() {
		return api.Errorf(api.ErrCodeInvalidParameter, "invalid thread priority %d", int(p))
	}
	err := e.ctrl.SetPriority(p)
	e.observe("priority", err, zap.Stringer("priority", p))
	return err
}

func (e *Engine) observe(op string, err error, field zap.Field) {
	e.metrics.ObserveThreadCall(op, err)
	if err != nil {
		e.log.Debug("thread control refused", zap.String("op", op), field, zap.Error(err))
	}
}
