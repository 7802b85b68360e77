/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package filter

import (
	"fmt"
	"os"
	"strings"

	"github.com/tomoncle/sieve/types"
	"gopkg.in/yaml.v3"
)

// ParamPreset is the request parameter naming a saved filter set.
const ParamPreset = "preset"

// Presets are named, saved filter sets. Lookup is case-insensitive.
type Presets map[string][]types.Criteria

// Get returns the criteria saved under name.
func (p Presets) Get(name string) ([]types.Criteria, bool) {
	if c, ok := p[name]; ok {
		return c, true
	}
	for k, c := range p {
		if strings.EqualFold(k, name) {
			return c, true
		}
	}
	return nil, false
}

// ParsePresetsYAML decodes a mapping of preset name to a criteria sequence:
//
//	in-stock:
//	  - field: Stock
//	    operator: GreaterThan
//	    value: 0
func ParsePresetsYAML(data []byte) (Presets, error) {
	presets := Presets{}
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, classifyDecodeError(err)
	}
	return presets, nil
}

// LoadPresets reads presets from a YAML file.
func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	return ParsePresetsYAML(data)
}
