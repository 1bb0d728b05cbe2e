// Copyright 2025 Emiliano Spinella (eminwux)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"

	"github.com/spf13/viper"
)

const Prefix = "BYTEFILTER"

type Var struct {
	Key        string // e.g. "BYTEFILTER_LOG_LEVEL"
	ViperKey   string // optional, e.g. "bytefilter.logLevel"
	CobraKey   string // optional, e.g. "log-level"
	Default    string // optional
	HasDefault bool
}

func DefineKV(envName, viperKey, cobraKey string, defaultVal ...string) Var {
	v := Var{Key: Prefix + "_" + envName, ViperKey: viperKey, CobraKey: cobraKey}
	if len(defaultVal) > 0 {
		v.Default = defaultVal[0]
		v.HasDefault = true
	}
	return v
}

func (v *Var) EnvVar() string { return v.Key }

// ValueOrDefault defines precedence: viper (if ViperKey set and value present) → OS env → default → "".
func (v *Var) ValueOrDefault() string {
	if v.ViperKey != "" && viper.IsSet(v.ViperKey) {
		return viper.GetString(v.ViperKey)
	}
	if val, ok := os.LookupEnv(v.Key); ok {
		return val
	}
	if v.HasDefault {
		return v.Default
	}
	return ""
}

// BindEnv is safe if ViperKey is empty: does nothing.
func (v *Var) BindEnv() error {
	if v.ViperKey == "" {
		return nil
	}
	return viper.BindEnv(v.ViperKey, v.Key)
}

// ApplyDefault pushes the declared default, if any, into viper.
func (v *Var) ApplyDefault() {
	if v.HasDefault && v.ViperKey != "" {
		viper.SetDefault(v.ViperKey, v.Default)
	}
}

// ---- Declare statically (Viper key optional per var) ----.
var (
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	BYTEFILTER_CONFIG_FILE = DefineKV("CONFIG_FILE", "bytefilter.configFile", "config")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	BYTEFILTER_LOG_LEVEL = DefineKV("LOG_LEVEL", "bytefilter.logLevel", "log-level", "info")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	BYTEFILTER_LOG_FILE = DefineKV("LOG_FILE", "bytefilter.logFile", "log-file")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	BYTEFILTER_BUFFER_SIZE = DefineKV("BUFFER_SIZE", "bytefilter.bufferSize", "buffer-size", "1024")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	BYTEFILTER_READ_ERRORS = DefineKV("READ_ERRORS", "bytefilter.readErrors", "read-errors", "fatal")
	//nolint:revive,gochecknoglobals,staticcheck // ignore linter warning about this variable
	BYTEFILTER_METADATA_FILE = DefineKV("METADATA_FILE", "bytefilter.metadataFile", "metadata-file")
)

// Vars returns every declared variable, in flag registration order.
func Vars() []*Var {
	return []*Var{
		&BYTEFILTER_CONFIG_FILE,
		&BYTEFILTER_LOG_LEVEL,
		&BYTEFILTER_LOG_FILE,
		&BYTEFILTER_BUFFER_SIZE,
		&BYTEFILTER_READ_ERRORS,
		&BYTEFILTER_METADATA_FILE,
	}
}
