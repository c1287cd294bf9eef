package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "playground"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName      = "output"
	noCacheFlagName     = "no-cache"
	verboseFlagName     = "verbose"
	runParallelFlagName = "parallel"

	sourceFlagName          = "source"
	testFlagName            = "test"
	sessionFlagName         = "session"
	referenceFlagName       = "ref"
	importFlagName          = "import"
	mutationTimeoutFlagName = "mutation-timeout"
	maxAttemptsFlagName     = "max-attempts"
	backendFlagName         = "backend"
	filterFlagName          = "filter"
	mutationTypesFlagName   = "types"
	metricsFileFlagName     = "metrics-file"

	runParallelConfigKey   = "run.parallel"
	mutationTimeoutKey     = "run.mutation_timeout"
	filterConfigKey        = "run.filter"
	mutationTypesConfigKey = "run.mutation_types"
	maxAttemptsConfigKey   = "compile.max_attempts"
	backendConfigKey       = "compile.backend"
	metricsFileConfigKey   = "metrics.file"
	cacheDirConfigKey      = "cache.dir"
	cacheTTLConfigKey      = "cache.ttl"
	workDirConfigKey       = "work.dir"

	backendToolchain = "toolchain"
	backendTypes     = "types"

	defaultMutationTimeout = time.Second * 10
	defaultMaxAttempts     = 50

	defaultReportsDir  = ".playground-reports"
	defaultCacheDir    = ".playground-cache"
	defaultCacheTTL    = time.Hour * 24 * 7
	defaultNoCache     = false
	defaultRunParallel = 1
	defaultBackend     = backendToolchain

	envPrefix = "PLAYGROUND"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".playground.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	globalLogger *slog.Logger

	// configReadErr holds a playground.yaml that exists but could not be read.
	// It is reported once logging is configured.
	configReadErr error
)

func init() {
	initConfig()
}

// initConfig registers config sources and defaults on the global viper
// instance and reads playground.yaml when present.
func initConfig() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(noCacheFlagName, defaultNoCache)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(mutationTimeoutKey, int64(defaultMutationTimeout.Seconds()))
	viper.SetDefault(filterConfigKey, "")
	viper.SetDefault(mutationTypesConfigKey, []string{})
	viper.SetDefault(maxAttemptsConfigKey, defaultMaxAttempts)
	viper.SetDefault(backendConfigKey, defaultBackend)
	viper.SetDefault(metricsFileConfigKey, "")
	viper.SetDefault(cacheDirConfigKey, defaultCacheDir)
	viper.SetDefault(cacheTTLConfigKey, defaultCacheTTL.String())
	viper.SetDefault(workDirConfigKey, "")

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			configReadErr = err
		}
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// mutationTimeout reads the per-mutant timeout, given in seconds.
func mutationTimeout() time.Duration {
	seconds := viper.GetInt64(mutationTimeoutKey)
	if seconds <= 0 {
		return defaultMutationTimeout
	}

	return time.Duration(seconds) * time.Second
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	if configReadErr != nil {
		slog.Warn("Ignoring unreadable config file", "file", configFileName, "error", configReadErr)
	}
}
