package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/kisketch/internal/app"
	"github.com/chazu/kisketch/internal/config"
	"github.com/chazu/kisketch/internal/logger"
	"github.com/chazu/kisketch/pkg/outline"
)

// loadProject reads the project file named by projectFile, or returns
// config.Default when there is none.
func loadProject(path, boardPath string) (config.Project, error) {
	if f := projectFile(path, boardPath); f != "" {
		return config.Load(f)
	}
	return config.Default(), nil
}

// projectFile returns path if set, else config.DefaultFile next to the board
// when it exists, else "".
func projectFile(path, boardPath string) string {
	if path != "" {
		return path
	}
	if boardPath != "" {
		candidate := filepath.Join(filepath.Dir(boardPath), config.DefaultFile)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// evaluate runs the board through the app and prints any problems to w.
// It fails when the evaluation produced errors.
func evaluate(ctx context.Context, w io.Writer, p config.Project, boardPath string, reqs []outline.Request) (*app.App, *app.Result, error) {
	a := app.New(p, logger.L())
	res, err := a.EvaluateFile(ctx, boardPath, reqs)
	if err != nil {
		return nil, nil, err
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			fmt.Fprintf(w, "error: %s\n", e)
		}
		return nil, nil, errEvaluation
	}
	return a, res, nil
}

var errEvaluation = errors.New("board evaluation failed")
