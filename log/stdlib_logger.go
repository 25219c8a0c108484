// SPDX-License-Identifier: ice License 1.0
//go:build !zerolog

package log

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ice-blockchain/courier/config"
)

const (
	debug = "debug"
)

// .
var (
	//nolint:gochecknoglobals // Immutable singleton.
	appCfg cfg
)

//nolint:gochecknoinits // Log is global, so its initialization can be done in init.
func init() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix | log.LUTC | log.Llongfile | log.Lmicroseconds)
	config.MustLoadFromKey("logger", &appCfg)
}

func Error(err error, fields ...any) {
	if err == nil {
		return
	}
	printf("ERROR", err.Error(), fields...)
}

func Debug(msg string, fields ...any) {
	if !strings.EqualFold(appCfg.Level, debug) {
		return
	}
	printf("DEBUG", msg, fields...)
}

func Info(msg string, fields ...any) {
	printf("INFO", msg, fields...)
}

func Warn(msg string, fields ...any) {
	printf("WARN", msg, fields...)
}

func Fatal(anything any, fields ...any) {
	if anything == nil {
		return
	}
	printf("FATAL", fmt.Sprintf("%v", anything), fields...)
	os.Exit(1)
}

func Panic(anything any, fields ...any) {
	if anything == nil {
		return
	}
	printf("PANIC", fmt.Sprintf("%v", anything), fields...)
	panic(anything)
}

func Level() string {
	return strings.ToLower(appCfg.Level)
}

func printf(level, msg string, fields ...any) {
	vars := make([]string, 0, len(fields)+1)
	for i := 0; i <= len(fields); i++ {
		vars = append(vars, "%v")
	}
	vals := make([]any, 0, len(fields)+1)
	vals = append(vals, msg)
	vals = append(vals, fields...)

	log.Printf(fmt.Sprintf("%v:%v", level, strings.Join(vars, " ")), vals...)
}
