//go:build !windows

package memory

import (
	"context"

	"github.com/shirou/gopsutil/v4/mem"
)

// queryPaging reads cache and commit figures from gopsutil's extended
// virtual memory stats (/proc/meminfo on Linux).
func queryPaging(ctx context.Context) (Paging, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Paging{}, err
	}
	return Paging{
		Cached:      vm.Cached,
		Committed:   vm.CommittedAS,
		CommitLimit: vm.CommitLimit,
	}, nil
}
