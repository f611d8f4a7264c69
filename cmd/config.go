package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Paths struct {
	Data     string
	DataConf string
	Output   string
}

// GetPaths returns the resolved working directories (Flag > Config > Default).
// The data and dataconf directories must already exist; the output directory
// is created on demand when a report is written.
func GetPaths() (*Paths, error) {
	paths := Paths{
		Data:     viper.GetString("paths.data"),
		DataConf: viper.GetString("paths.dataconf"),
		Output:   viper.GetString("paths.output"),
	}

	for _, dir := range []string{paths.Data, paths.DataConf} {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("directory %q is not usable: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%q is not a directory", dir)
		}
	}

	return &paths, nil
}
