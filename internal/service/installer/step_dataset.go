package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sandevgo/gradebot/internal/config"
	"github.com/sandevgo/gradebot/internal/storage/dataset"
)

// NewDatasetStep asks for the grades CSV and checks that it parses.
func NewDatasetStep() Step {
	return newInputStep("Path to the grades CSV file", filepath.Join(config.GetRuntimePath(), "grades.csv"), applyDataset)
}

// NewDelimiterStep asks for the column separator of the CSV file.
func NewDelimiterStep() Step {
	return newInputStep("CSV delimiter", ",", func(state *InstallState, val string) error {
		if val == "" {
			return nil
		}
		state.App.CSVDelimiter = val
		return nil
	}, optional())
}

func applyDataset(state *InstallState, val string) error {
	path, err := filepath.Abs(val)
	if err != nil {
		return err
	}

	opts := dataset.LoadOptions{Delimiter: state.App.Delimiter()}
	store, err := dataset.Load(context.Background(), path, opts)
	if err != nil {
		return err
	}
	if store.IsEmpty() {
		return fmt.Errorf("%s has no data rows", path)
	}

	state.App.CSVPath = path
	state.DatasetRows = store.Len()
	return nil
}
