// File: affinity/policy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Priority mapping tables, indexed by api.ThreadPriority. Each table is
// strictly increasing in effective priority.

package affinity

import "github.com/momentics/hwtopo/api"

// Linux scheduling policies (uapi/linux/sched.h).
const (
	schedNormal = 0
	schedRR     = 2
)

type linuxPolicy struct {
	policy   uint32
	nice     int32
	priority uint32 // SCHED_RR static priority, 1..99
}

var linuxPriorities = [...]linuxPolicy{
	{schedNormal, 19, 0},
	{schedNormal, 15, 0},
	{schedNormal, 10, 0},
	{schedNormal, 0, 0},
	{schedNormal, -5, 0},
	{schedRR, 0, 97},
	{schedRR, 0, 99},
}

// Windows THREAD_PRIORITY_* values.
var windowsPriorities = [...]int32{
	-15, // IDLE
	-2,  // LOWEST
	-1,  // BELOW_NORMAL
	0,   // NORMAL
	1,   // ABOVE_NORMAL
	2,   // HIGHEST
	15,  // TIME_CRITICAL
}

// macOS qos_class_t values.
const (
	qosBackground      = 0x09
	qosUtility         = 0x11
	qosDefault         = 0x15
	qosUserInitiated   = 0x19
	qosUserInteractive = 0x21
)

type darwinQoS struct {
	class  uint32
	relpri int32 // relative priority within the class, -15..0
}

var darwinPriorities = [...]darwinQoS{
	{qosBackground, 0},
	{qosUtility, 0},
	{qosDefault, -8},
	{qosDefault, 0},
	{qosUserInitiated, 0},
	{qosUserInteractive, -8},
	{qosUserInteractive, 0},
}

// PriorityMapping is the native setting applied for one ThreadPriority on
// each supported OS.
type PriorityMapping struct {
	Priority api.ThreadPriority

	LinuxPolicy   uint32 // SCHED_NORMAL or SCHED_RR
	LinuxNice     int32
	LinuxRTPrio   uint32 // 0 unless LinuxPolicy is SCHED_RR
	WindowsLevel  int32  // THREAD_PRIORITY_*
	DarwinQoS     uint32 // qos_class_t
	DarwinRelPrio int32
}

// PriorityMappings returns a copy of the mapping tables in ascending priority
// order.
func PriorityMappings() []PriorityMapping {
	out := make([]PriorityMapping, len(api.ThreadPriorities))
	for i, p := range api.ThreadPriorities {
		l, d := linuxPriorities[p], darwinPriorities[p]
		out[i] = PriorityMapping{
			Priority:      p,
			LinuxPolicy:   l.policy,
			LinuxNice:     l.nice,
			LinuxRTPrio:   l.priority,
			WindowsLevel:  windowsPriorities[p],
			DarwinQoS:     d.class,
			DarwinRelPrio: d.relpri,
		}
	}
	return out
}
