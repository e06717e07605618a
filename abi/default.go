// File: abi/default.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package abi

import (
	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/facade"
)

func def() Surface { return Surface{E: facade.Default()} }

func GetCPUInfo(out *CPUInfo) api.ErrorCode { return def().GetCPUInfo(out) }
func IsHybrid(out *bool) api.ErrorCode      { return def().IsHybrid(out) }
func GetFeatures(out *uint32) api.ErrorCode { return def().GetFeatures(out) }
func PinThreadToCore(lp int) api.ErrorCode  { return def().PinThreadToCore(lp) }
func SetThreadPriority(p api.ThreadPriority) api.ErrorCode {
	return def().SetThreadPriority(p)
}

func GetSocketInfo(socket int, out *SocketInfo) api.ErrorCode {
	return def().GetSocketInfo(socket, out)
}

func GetCoreInfo(socket, core int, out *CoreInfo) api.ErrorCode {
	return def().GetCoreInfo(socket, core, out)
}

func GetCoreLogicalProcessors(socket, core int, out []int, n *int) api.ErrorCode {
	return def().GetCoreLogicalProcessors(socket, core, out, n)
}

func GetL1iCacheInfo(socket, core int, out *CacheInfo) api.ErrorCode {
	return def().GetL1iCacheInfo(socket, core, out)
}

func GetL1dCacheInfo(socket, core int, out *CacheInfo) api.ErrorCode {
	return def().GetL1dCacheInfo(socket, core, out)
}

func GetL2CacheInfo(socket, core int, out *CacheInfo) api.ErrorCode {
	return def().GetL2CacheInfo(socket, core, out)
}

func GetL3CacheInfo(socket int, out *CacheInfo) api.ErrorCode {
	return def().GetL3CacheInfo(socket, out)
}
