// Package sweep contains the GPU-aware sweep machinery: the device
// allocator, the run invoker, and the parallel scheduler.
package sweep

import (
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/splatsweep/splatsweep/model"
)

// AssignDevice maps a dense dispatch-order index to a device index via
// round-robin. It is a pure function of its inputs: allocation is static
// and ignores live device load. A deviceCount of zero (or less) means no
// devices are available and the run must not be pinned at all.
//
// Parallelism exceeding deviceCount is allowed; co-scheduled runs then
// share a device and the operator owns the memory budget.
func AssignDevice(runIndex, deviceCount int) int {
	if deviceCount <= 0 {
		return model.DeviceNone
	}
	return runIndex % deviceCount
}

// DetectDevices counts the available GPUs. nvidia-smi is authoritative;
// CUDA_VISIBLE_DEVICES is the fallback when the tool is absent. Zero
// means no devices were found and runs proceed without pinning.
func DetectDevices(logger zerolog.Logger) int {
	out, err := exec.Command("nvidia-smi", "--list-gpus").Output()
	if err == nil {
		n := 0
		for _, line := range strings.Split(string(out), "\n") {
			if strings.TrimSpace(line) != "" {
				n++
			}
		}
		if n > 0 {
			logger.Debug().Int("devices", n).Msg("Detected GPUs via nvidia-smi")
			return n
		}
	} else {
		logger.Debug().Err(err).Msg("nvidia-smi not usable, falling back to environment")
	}

	if v := os.Getenv("CUDA_VISIBLE_DEVICES"); v != "" {
		n := 0
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) != "" {
				n++
			}
		}
		if n > 0 {
			logger.Debug().Int("devices", n).Msg("Detected GPUs via CUDA_VISIBLE_DEVICES")
			return n
		}
	}

	logger.Debug().Msg("No GPUs detected, runs will not be pinned")
	return 0
}
