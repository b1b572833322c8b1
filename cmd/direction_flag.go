package cmd

import (
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/weaving"
	"github.com/spf13/pflag"
)

// directionValue is a pflag.Value accepting F/B or forward/backward.
// The zero value means "not set".
type directionValue struct {
	dir weaving.Direction
}

var _ pflag.Value = (*directionValue)(nil)

func (d *directionValue) String() string {
	return string(d.dir)
}

func (d *directionValue) Set(s string) error {
	dir, err := weaving.ParseDirection(s)
	if err != nil {
		return err
	}
	d.dir = dir
	return nil
}

func (d *directionValue) Type() string {
	return "direction"
}
