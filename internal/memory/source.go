package memory

import (
	"context"
	"math"

	"github.com/shirou/gopsutil/v4/mem"
)

// queryPhysical reads physical memory through gopsutil. On Windows this is
// GlobalMemoryStatusEx and UsedPercent is dwMemoryLoad.
func queryPhysical(ctx context.Context) (Physical, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Physical{}, err
	}
	return Physical{
		Total:       vm.Total,
		Available:   vm.Available,
		LoadPercent: int(math.Round(vm.UsedPercent)),
	}, nil
}
