package profiling

import (
	"fmt"
	"strings"
	"time"

	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/grafana/pyroscope-go"
)

// Config holds continuous profiling configuration.
type Config struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

var profileTypeMap = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// InitProfiler starts continuous profiling when enabled. The returned stop
// function is safe to call even when profiling is disabled.
func InitProfiler(cfg Config, serviceName, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}
	if cfg.UploadIntervalSeconds <= 0 {
		cfg.UploadIntervalSeconds = 15
	}

	profileTypes, err := parseProfileTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	appName := cfg.AppName
	if appName == "" {
		appName = serviceName
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: fmt.Sprintf("%s{env=%s}", appName, environment),
		ServerAddress:   cfg.Endpoint,
		UploadRate:      time.Duration(cfg.UploadIntervalSeconds) * time.Second,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling started")

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Warn("Failed to stop profiler")
		}
	}, nil
}

func parseProfileTypes(sampleTypes string) ([]pyroscope.ProfileType, error) {
	if strings.TrimSpace(sampleTypes) == "" {
		return profileTypeMap["cpu"], nil
	}

	var types []pyroscope.ProfileType
	for _, name := range strings.Split(sampleTypes, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		mapped, ok := profileTypeMap[name]
		if !ok {
			return nil, fmt.Errorf("unknown profile sample type: %s", name)
		}
		types = append(types, mapped...)
	}
	if len(types) == 0 {
		return profileTypeMap["cpu"], nil
	}
	return types, nil
}
