/*
 * config.go, part of molgrid.
 *
 *
 * Copyright 2024 rmeraaatacademicosdotutadotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

// Package config holds the formatting configuration of the grid, and the
// settings file the molgrid command reads it from.
//
// A Config is read fresh on every update. Validate checks every option, so
// a configuration that passes it can be applied to all the cells.
package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rmera/molgrid"
	"github.com/rmera/molgrid/engine"
)

// Values for Config.Style.
const (
	Cartoon = "cartoon"
	Stick   = "stick"
	Line    = "line"
	Cross   = "cross"
	Sphere  = "sphere"
	Surface = "surface"
)

// Values for Config.ColorScheme and Config.SurfaceColorScheme. Custom is only
// valid for the latter.
const (
	SchemeDefault  = "default"
	SchemeChain    = "chain"
	SchemeResidue  = "residue"
	SchemeSpectrum = "spectrum"
	SchemeSS       = "ss"
	SchemeCustom   = "custom"
)

// Title positions.
const (
	TopLeft      = "top-left"
	TopCenter    = "top-center"
	TopRight     = "top-right"
	BottomLeft   = "bottom-left"
	BottomCenter = "bottom-center"
	BottomRight  = "bottom-right"
)

var (
	styles        = []string{Cartoon, Stick, Line, Cross, Sphere, Surface}
	schemes       = []string{SchemeChain, SchemeResidue, SchemeSpectrum, SchemeSS, SchemeDefault}
	positions     = []string{TopLeft, TopCenter, TopRight, BottomLeft, BottomCenter, BottomRight}
	chainIDs      = []string{"A", "B", "C", "D", "E", "F"}
	surfaceScheme = append([]string{SchemeCustom}, schemes...)
)

// Config is the formatting configuration. The toml keys are the option
// names the dashboard uses.
type Config struct {
	Style                string  `toml:"style"`
	ColorScheme          string  `toml:"colorScheme"`
	BackgroundColor      string  `toml:"backgroundColor"`
	Spin                 bool    `toml:"spin"`
	UseCustomChainColors bool    `toml:"useCustomChainColors"`
	ChainAColor          string  `toml:"chainAColor"`
	ChainBColor          string  `toml:"chainBColor"`
	ChainCColor          string  `toml:"chainCColor"`
	ChainDColor          string  `toml:"chainDColor"`
	ChainEColor          string  `toml:"chainEColor"`
	ChainFColor          string  `toml:"chainFColor"`
	Columns              int     `toml:"columns"`
	ShowTitles           bool    `toml:"showTitles"`
	TitlePosition        string  `toml:"titlePosition"`
	ShowSurface          bool    `toml:"showSurface"`
	SurfaceOpacity       float64 `toml:"surfaceOpacity"` //0 to 100
	SurfaceColorScheme   string  `toml:"surfaceColorScheme"`
	SurfaceColor         string  `toml:"surfaceColor"`
	ViewerEngine         string  `toml:"viewerEngine"`
	TitleMaxWidth        int     `toml:"titleMaxWidth"` //display columns
	Width                int     `toml:"width"`         //pixels
	Height               int     `toml:"height"`
}

// Default returns the configuration used when the host sets no options.
func Default() *Config {
	return &Config{
		Style:              Cartoon,
		ColorScheme:        SchemeChain,
		BackgroundColor:    "#ffffff",
		ChainAColor:        "#e41a1c",
		ChainBColor:        "#377eb8",
		ChainCColor:        "#4daf4a",
		ChainDColor:        "#984ea3",
		ChainEColor:        "#ff7f00",
		ChainFColor:        "#a65628",
		ShowTitles:         true,
		TitlePosition:      TopLeft,
		SurfaceOpacity:     70,
		SurfaceColorScheme: SchemeDefault,
		SurfaceColor:       "#ffffff",
		ViewerEngine:       string(engine.Scene),
		TitleMaxWidth:      40,
		Width:              400,
		Height:             400,
	}
}

// SetDefaults fills the empty string options and the zero sizes with the
// default values. Booleans, Columns and SurfaceOpacity are left alone, as
// their zero value is meaningful.
func (c *Config) SetDefaults() {
	d := Default()
	str := []struct{ field, def *string }{
		{&c.Style, &d.Style},
		{&c.ColorScheme, &d.ColorScheme},
		{&c.BackgroundColor, &d.BackgroundColor},
		{&c.ChainAColor, &d.ChainAColor},
		{&c.ChainBColor, &d.ChainBColor},
		{&c.ChainCColor, &d.ChainCColor},
		{&c.ChainDColor, &d.ChainDColor},
		{&c.ChainEColor, &d.ChainEColor},
		{&c.ChainFColor, &d.ChainFColor},
		{&c.TitlePosition, &d.TitlePosition},
		{&c.SurfaceColorScheme, &d.SurfaceColorScheme},
		{&c.SurfaceColor, &d.SurfaceColor},
		{&c.ViewerEngine, &d.ViewerEngine},
	}
	for _, v := range str {
		if strings.TrimSpace(*v.field) == "" {
			*v.field = *v.def
		}
	}
	if c.TitleMaxWidth == 0 {
		c.TitleMaxWidth = d.TitleMaxWidth
	}
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
}

// ValidationError is a problem with one option.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects all the problems found by Validate.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func oneOf(v string, valid []string) bool {
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}

// Validate checks all the options and returns a ValidateErrors with every
// problem found, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, a ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, a...)})
	}
	if !oneOf(c.Style, styles) {
		add("style", "invalid style %q, must be one of: %s", c.Style, strings.Join(styles, ", "))
	}
	if !oneOf(c.ColorScheme, schemes) {
		add("colorScheme", "invalid scheme %q, must be one of: %s", c.ColorScheme, strings.Join(schemes, ", "))
	}
	if !oneOf(c.SurfaceColorScheme, surfaceScheme) {
		add("surfaceColorScheme", "invalid scheme %q, must be one of: %s", c.SurfaceColorScheme, strings.Join(surfaceScheme, ", "))
	}
	if !oneOf(c.TitlePosition, positions) {
		add("titlePosition", "invalid position %q, must be one of: %s", c.TitlePosition, strings.Join(positions, ", "))
	}
	if _, ok := engine.ParseKind(c.ViewerEngine); !ok {
		add("viewerEngine", "unknown engine %q", c.ViewerEngine)
	}
	if c.Columns < 0 {
		add("columns", "must be 0 (automatic) or positive, got %d", c.Columns)
	}
	if c.SurfaceOpacity < 0 || c.SurfaceOpacity > 100 {
		add("surfaceOpacity", "must be between 0 and 100, got %g", c.SurfaceOpacity)
	}
	if c.TitleMaxWidth < 1 {
		add("titleMaxWidth", "must be positive, got %d", c.TitleMaxWidth)
	}
	if c.Width < 1 || c.Height < 1 {
		add("width/height", "must be positive, got %dx%d", c.Width, c.Height)
	}
	//colours that are not in use are not checked.
	colors := map[string]string{"backgroundColor": c.BackgroundColor}
	if c.SurfaceColorScheme == SchemeCustom {
		colors["surfaceColor"] = c.SurfaceColor
	}
	if c.UseCustomChainColors {
		for _, id := range chainIDs {
			colors["chain"+id+"Color"] = c.chainHex(id)
		}
	}
	names := make([]string, 0, len(colors))
	for k := range colors {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if _, err := ParseColor(colors[k]); err != nil {
			add(k, "%v", err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Engine returns the selected rendering engine.
func (c *Config) Engine() engine.Kind {
	k, _ := engine.ParseKind(c.ViewerEngine)
	return k
}

// Background returns the parsed background colour, or white if it can't
// be parsed.
func (c *Config) Background() color.Color {
	col, err := ParseColor(c.BackgroundColor)
	if err != nil {
		return color.White
	}
	return col
}

// Opacity returns the surface opacity between 0 and 1.
func (c *Config) Opacity() float64 {
	return c.SurfaceOpacity / 100
}

// Surface returns the surface colour used with the custom surface scheme.
func (c *Config) Surface() (color.Color, error) {
	return ParseColor(c.SurfaceColor)
}

func (c *Config) chainHex(id string) string {
	switch id {
	case "A":
		return c.ChainAColor
	case "B":
		return c.ChainBColor
	case "C":
		return c.ChainCColor
	case "D":
		return c.ChainDColor
	case "E":
		return c.ChainEColor
	case "F":
		return c.ChainFColor
	}
	return ""
}

// ChainColor returns the override colour for the chain id (A to F).
func (c *Config) ChainColor(id string) (color.Color, error) {
	h := c.chainHex(id)
	if h == "" && !oneOf(id, chainIDs) {
		return nil, fmt.Errorf("config: no colour option for chain %q", id)
	}
	return ParseColor(h)
}

// ParseColor parses a #rrggbb or #rgb colour. The leading # can be omitted.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("config: invalid colour %q", s)
	}
	return c, nil
}

// Settings is the file read by the molgrid command: the formatting
// configuration, the roles of the table columns and the fetch options.
type Settings struct {
	Format Config            `toml:"format"`
	Roles  map[string]string `toml:"roles"` //column name to role name
	Fetch  FetchSettings     `toml:"fetch"`
}

// FetchSettings configures the loading of structures from paths and URLs.
type FetchSettings struct {
	Cache     string  `toml:"cache"`     //sqlite file, empty for no cache
	Rate      float64 `toml:"rate"`      //requests per second, 0 for no limit
	Burst     int     `toml:"burst"`
	TimeoutMS int     `toml:"timeoutMs"`
	BaseDir   string  `toml:"baseDir"` //relative paths are resolved against it
}

// DefaultSettings returns settings with the default formatting configuration.
func DefaultSettings() *Settings {
	return &Settings{Format: *Default(), Roles: map[string]string{}, Fetch: FetchSettings{Burst: 1, TimeoutMS: 30000}}
}

// RoleMap returns the roles in s, parsed.
func (s *Settings) RoleMap() (map[string]molgrid.Role, error) {
	ret := make(map[string]molgrid.Role, len(s.Roles))
	for col, name := range s.Roles {
		r, ok := molgrid.ParseRole(name)
		if !ok {
			return nil, fmt.Errorf("config: unknown role %q for column %q", name, col)
		}
		ret[col] = r
	}
	return ret, nil
}

// Decode reads settings from TOML text, on top of the defaults. Unknown keys
// are an error.
func Decode(text string) (*Settings, error) {
	s := DefaultSettings()
	md, err := toml.Decode(text, s)
	if err != nil {
		return nil, fmt.Errorf("config: failed to decode TOML: %w", err)
	}
	if err := s.check(md); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the settings file at path, on top of the defaults.
func Load(path string) (*Settings, error) {
	s := DefaultSettings()
	md, err := toml.DecodeFile(path, s)
	if err != nil {
		return nil, fmt.Errorf("config: failed to decode TOML file %s: %w", path, err)
	}
	if err := s.check(md); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) check(md toml.MetaData) error {
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	s.Format.SetDefaults()
	if err := s.Format.Validate(); err != nil {
		return err
	}
	if s.Fetch.Rate < 0 || s.Fetch.Burst < 0 || s.Fetch.TimeoutMS < 0 {
		return fmt.Errorf("config: fetch rate, burst and timeoutMs can't be negative")
	}
	_, err := s.RoleMap()
	return err
}
