// Package config provides configuration helpers for go-vigil commands.
// Values resolve in order: command-line flag, environment variable,
// default. A .env file in the working directory is loaded first.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/vigil-labs/go-vigil/internal/log"
)

// Default model and asset paths.
const (
	DefaultFaceModel     = "models/face_detection_yunet.onnx"
	DefaultLandmarkModel = "models/face_landmarks_68.onnx"
	DefaultAlarmSound    = "alarm.wav"
)

// LoadEnvFile loads a .env file if present. Missing files are fine;
// anything else is worth a warning.
func LoadEnvFile() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("failed to load .env file", "error", err)
		}
	}
}

// Env returns the environment variable or the default if unset.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvInt returns the environment variable parsed as int, or the
// default if unset or unparsable.
func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn("ignoring non-integer environment value", "key", key, "value", v)
		return def
	}
	return n
}

// EnvFloat returns the environment variable parsed as float64, or the
// default if unset or unparsable.
func EnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn("ignoring non-numeric environment value", "key", key, "value", v)
		return def
	}
	return f
}

// EnvBool returns the environment variable parsed as bool, or the
// default if unset or unparsable.
func EnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn("ignoring non-boolean environment value", "key", key, "value", v)
		return def
	}
	return b
}
