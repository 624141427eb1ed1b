//go:build windows

package memory

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"
)

// ─── psapi Syscalls ──────────────────────────────────────────────────────────

var (
	modPsapi               = windows.NewLazySystemDLL("psapi.dll")
	procGetPerformanceInfo = modPsapi.NewProc("GetPerformanceInfo")
)

// performanceInformation mirrors the Windows PERFORMANCE_INFORMATION struct.
// SIZE_T fields are page counts except PageSize.
type performanceInformation struct {
	cb                uint32
	commitTotal       uintptr
	commitLimit       uintptr
	commitPeak        uintptr
	physicalTotal     uintptr
	physicalAvailable uintptr
	systemCache       uintptr
	kernelTotal       uintptr
	kernelPaged       uintptr
	kernelNonpaged    uintptr
	pageSize          uintptr
	handleCount       uint32
	processCount      uint32
	threadCount       uint32
}

// win32PerfOSMemory is the subset of Win32_PerfFormattedData_PerfOS_Memory
// used when GetPerformanceInfo is unavailable.
type win32PerfOSMemory struct {
	CacheBytes     uint64
	CommittedBytes uint64
	CommitLimit    uint64
}

const perfOSMemoryQuery = "SELECT CacheBytes, CommittedBytes, CommitLimit FROM Win32_PerfFormattedData_PerfOS_Memory"

// queryPaging reads cache and commit figures via GetPerformanceInfo, falling
// back to the WMI performance counters.
func queryPaging(ctx context.Context) (Paging, error) {
	pg, err := queryPerformanceInfo()
	if err == nil {
		return pg, nil
	}
	if ctx.Err() != nil {
		return Paging{}, err
	}

	wmiPg, wmiErr := queryPerfCounters()
	if wmiErr != nil {
		return Paging{}, fmt.Errorf("GetPerformanceInfo: %w; WMI fallback: %v", err, wmiErr)
	}
	return wmiPg, nil
}

func queryPerformanceInfo() (Paging, error) {
	if err := procGetPerformanceInfo.Find(); err != nil {
		return Paging{}, err
	}

	var info performanceInformation
	info.cb = uint32(unsafe.Sizeof(info))

	ret, _, callErr := procGetPerformanceInfo.Call(
		uintptr(unsafe.Pointer(&info)),
		uintptr(info.cb),
	)
	if ret == 0 {
		return Paging{}, fmt.Errorf("GetPerformanceInfo failed: %w", callErr)
	}

	page := uint64(info.pageSize)
	return Paging{
		Cached:      uint64(info.systemCache) * page,
		Committed:   uint64(info.commitTotal) * page,
		CommitLimit: uint64(info.commitLimit) * page,
	}, nil
}

func queryPerfCounters() (Paging, error) {
	var dst []win32PerfOSMemory
	if err := wmi.Query(perfOSMemoryQuery, &dst); err != nil {
		return Paging{}, err
	}
	if len(dst) == 0 {
		return Paging{}, fmt.Errorf("no rows from Win32_PerfFormattedData_PerfOS_Memory")
	}
	return Paging{
		Cached:      dst[0].CacheBytes,
		Committed:   dst[0].CommittedBytes,
		CommitLimit: dst[0].CommitLimit,
	}, nil
}
