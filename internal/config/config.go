// Package config loads keychess settings: a board preset from
// internal/board, overlaid with a YAML file and KEYCHESS_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/internal/board"
	"github.com/DrJosh9000/keychess/internal/faults"
	"github.com/DrJosh9000/keychess/keypad"
	"github.com/DrJosh9000/keychess/notation"
)

// Config keys.
const (
	keyBoard        = "board"
	keyKeypad       = "keypad"
	keyLCD          = "lcd"
	keyIndicator    = "indicator"
	keyCounter      = "counter"
	keyDepth        = "engine.depth"
	keyHuman        = "engine.human"
	keyJournal      = "journal"
	keyAwaitRelease = "await_release"

	envPrefix = "KEYCHESS"

	// MaxDepth bounds the search depth; deeper searches take minutes on a
	// Pi.
	MaxDepth = 5
)

// LayoutConfig overrides the keypad layout. Keys are files ("a"-"h") or
// ranks ("1"-"8"); values are key positions as "row,col". A table that is
// left out keeps the default.
type LayoutConfig struct {
	Files map[string]string `mapstructure:"files"`
	Ranks map[string]string `mapstructure:"ranks"`
}

// EngineConfig sets up the computer opponent.
type EngineConfig struct {
	Depth int    `mapstructure:"depth"`
	Human string `mapstructure:"human"` // the side the human plays
}

// Config is everything needed to run a board.
type Config struct {
	Board        string        `mapstructure:"board"`
	Keypad       board.Keypad  `mapstructure:"keypad"`
	LCD          board.LCD     `mapstructure:"lcd"`
	Indicator    string        `mapstructure:"indicator"`
	Counter      board.Counter `mapstructure:"counter"`
	Layout       LayoutConfig  `mapstructure:"layout"`
	Engine       EngineConfig  `mapstructure:"engine"`
	Journal      string        `mapstructure:"journal"`
	AwaitRelease bool          `mapstructure:"await_release"`
}

// Load reads the YAML file at path (which may be empty or missing) over the
// defaults of the named board preset. If boardName is empty the file's
// "board" key picks the preset, then board.Default. The result is
// validated.
func Load(path, boardName string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, faults.New(faults.ErrInvalidConfig, "read "+path, err)
			}
		}
	}

	if boardName == "" {
		boardName = v.GetString(keyBoard)
	}
	if boardName == "" {
		boardName = board.Default
	}
	p, err := board.Lookup(boardName)
	if err != nil {
		return Config{}, faults.New(faults.ErrInvalidConfig, "load", err)
	}
	setDefaults(v, p)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, faults.New(faults.ErrInvalidConfig, "decode", err)
	}
	c.Board = boardName
	return c, c.Validate()
}

// Default returns the configuration of a preset with no overrides.
func Default(boardName string) (Config, error) {
	return Load("", boardName)
}

func setDefaults(v *viper.Viper, p board.Preset) {
	v.SetDefault(keyKeypad+".drive", p.Keypad.Drive)
	v.SetDefault(keyKeypad+".sense", p.Keypad.Sense)
	v.SetDefault(keyKeypad+".transposed", p.Keypad.Transposed)
	v.SetDefault(keyKeypad+".poll_interval", p.Keypad.PollInterval)
	v.SetDefault(keyKeypad+".row_settle", p.Keypad.RowSettle)
	v.SetDefault(keyLCD+".rs", p.LCD.RS)
	v.SetDefault(keyLCD+".rw", p.LCD.RW)
	v.SetDefault(keyLCD+".e", p.LCD.E)
	v.SetDefault(keyLCD+".data", p.LCD.Data)
	v.SetDefault(keyLCD+".sda", p.LCD.SDA)
	v.SetDefault(keyLCD+".scl", p.LCD.SCL)
	v.SetDefault(keyLCD+".i2c_addr", p.LCD.I2CAddr)
	v.SetDefault(keyIndicator, p.Indicator)
	v.SetDefault(keyCounter+".ld", p.Counter.LD)
	v.SetDefault(keyCounter+".clk", p.Counter.CLK)
	v.SetDefault(keyCounter+".din", p.Counter.DIN)
	v.SetDefault(keyDepth, game.DefaultDepth)
	v.SetDefault(keyHuman, "white")
	v.SetDefault(keyJournal, "")
	v.SetDefault(keyAwaitRelease, false)
}

func invalid(format string, args ...any) error {
	return faults.New(faults.ErrInvalidConfig, "validate", fmt.Errorf(format, args...))
}

// Validate checks that the configuration describes a usable board.
func (c Config) Validate() error {
	if len(c.Keypad.Drive) == 0 || len(c.Keypad.Sense) == 0 {
		return invalid("keypad needs drive and sense pins, have %d and %d", len(c.Keypad.Drive), len(c.Keypad.Sense))
	}
	if c.Keypad.PollInterval < 0 || c.Keypad.RowSettle < 0 {
		return invalid("keypad timings must not be negative")
	}
	if !c.LCD.I2C() {
		if n := len(c.LCD.Data); n != 4 && n != 8 {
			return invalid("lcd needs 4 or 8 data pins, have %d", n)
		}
		if c.LCD.RS == "" || c.LCD.E == "" {
			return invalid("lcd needs rs and e pins")
		}
	}
	if c.Engine.Depth < 1 || c.Engine.Depth > MaxDepth {
		return invalid("engine depth %d not in 1-%d", c.Engine.Depth, MaxDepth)
	}
	if _, err := game.ParseSide(c.Engine.Human); err != nil {
		return invalid("engine.human: %w", err)
	}
	l, err := c.KeyLayout()
	if err != nil {
		return err
	}
	sc := c.Keypad.ScanConfig()
	for _, p := range l.Keys() {
		if p.Row < 0 || p.Row >= sc.Rows || p.Col < 0 || p.Col >= sc.Cols {
			return invalid("layout key %v is off the %dx%d keypad", p, sc.Rows, sc.Cols)
		}
	}
	return nil
}

// HumanSide is the side the human plays.
func (c Config) HumanSide() game.Side {
	s, _ := game.ParseSide(c.Engine.Human)
	return s
}

// KeyLayout builds the keypad layout, starting from notation.DefaultLayout.
func (c Config) KeyLayout() (notation.Layout, error) {
	l := notation.DefaultLayout()
	if len(c.Layout.Files) > 0 {
		l.Files = make(map[keypad.Position]notation.File, len(c.Layout.Files))
		for k, v := range c.Layout.Files {
			if len(k) != 1 || k[0] < 'a' || k[0] > 'h' {
				return notation.Layout{}, invalid("layout.files: %q is not a file", k)
			}
			p, err := ParsePosition(v)
			if err != nil {
				return notation.Layout{}, invalid("layout.files.%s: %w", k, err)
			}
			l.Files[p] = notation.File(k[0] - 'a')
		}
	}
	if len(c.Layout.Ranks) > 0 {
		l.Ranks = make(map[keypad.Position]notation.Rank, len(c.Layout.Ranks))
		for k, v := range c.Layout.Ranks {
			if len(k) != 1 || k[0] < '1' || k[0] > '8' {
				return notation.Layout{}, invalid("layout.ranks: %q is not a rank", k)
			}
			p, err := ParsePosition(v)
			if err != nil {
				return notation.Layout{}, invalid("layout.ranks.%s: %w", k, err)
			}
			l.Ranks[p] = notation.Rank(k[0] - '1')
		}
	}
	if err := l.Validate(); err != nil {
		return notation.Layout{}, faults.New(faults.ErrInvalidConfig, "layout", err)
	}
	return l, nil
}

// ParsePosition parses "row,col".
func ParsePosition(s string) (keypad.Position, error) {
	r, c, ok := strings.Cut(s, ",")
	if !ok {
		return keypad.Position{}, fmt.Errorf("key %q is not row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return keypad.Position{}, fmt.Errorf("key %q: row: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return keypad.Position{}, fmt.Errorf("key %q: col: %w", s, err)
	}
	return keypad.Position{Row: row, Col: col}, nil
}
