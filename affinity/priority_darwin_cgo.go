//go:build darwin && cgo
// +build darwin,cgo

// File: affinity/priority_darwin_cgo.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread priority through quality-of-service classes.

package affinity

/*
#include <pthread.h>
#include <pthread/qos.h>

static int go_set_qos(unsigned int cls, int relpri) {
	return pthread_set_qos_class_self_np((qos_class_t)cls, relpri);
}
*/
import "C"

import (
	"syscall"

	"github.com/momentics/hwtopo/api"
)

func setPriorityPlatform(p api.ThreadPriority) error {
	q := darwinPriorities[p]
	if rc := C.go_set_qos(C.uint(q.class), C.int(q.relpri)); rc != 0 {
		err := syscall.Errno(rc)
		code := api.ErrCodeInternal
		switch err {
		case syscall.EPERM, syscall.EINVAL:
			code = api.ErrCodePermissionDenied
		case syscall.ENOTSUP:
			code = api.ErrCodeUnsupported
		}
		return api.Wrap(err, code, "pthread_set_qos_class_self_np failed").
			WithContext("priority", p.Description())
	}
	return nil
}
