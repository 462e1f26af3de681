package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-seedgen/pkg/config"
)

// AskCounts asks for the dataset sizes, chunk size and seed, using the
// values of cfg as defaults. The returned config carries the answers.
func AskCounts(ctx context.Context, driver Driver, cfg config.Config) (config.Config, error) {
	out := cfg.Clone()

	fields := []struct {
		message string
		help    string
		minimum int
		target  *int
	}{
		{message: "Users", help: "Number of users to generate.", target: &out.Users},
		{message: "Products", help: "Number of products to generate.", target: &out.Products},
		{message: "Orders", help: "Number of orders to generate.", target: &out.Orders},
		{message: "Chunk size", help: "Orders per output file part.", minimum: 1, target: &out.ChunkSize},
	}
	for _, field := range fields {
		value, err := askInt(ctx, driver, field.message, field.help, *field.target, field.minimum)
		if err != nil {
			return cfg, err
		}
		*field.target = value
	}

	answer, err := driver.Input(ctx, InputConfig{
		Message:   "Seed",
		Help:      "Random seed; 0 derives one from the clock.",
		Default:   strconv.FormatInt(out.Seed, 10),
		Validator: validateSeed,
	})
	if err != nil {
		return cfg, err
	}
	seed, err := parseSeed(answer)
	if err != nil {
		return cfg, err
	}
	out.Seed = seed
	return out, nil
}

// ConfirmOverwrite asks before replacing existing artifacts. It returns true
// without asking when nothing would be overwritten.
func ConfirmOverwrite(ctx context.Context, driver Driver, dir string, existing []string) (bool, error) {
	if len(existing) == 0 {
		return true, nil
	}
	const preview = 5
	names := existing
	if len(names) > preview {
		names = append(append([]string(nil), names[:preview]...), fmt.Sprintf("... %d more", len(existing)-preview))
	}
	if err := driver.Info(ctx, fmt.Sprintf("%s already contains %d generated files:\n  %s",
		dir, len(existing), strings.Join(names, "\n  "))); err != nil {
		return false, err
	}
	return driver.Confirm(ctx, ConfirmConfig{
		Message: "Overwrite them?",
		Default: false,
	})
}

func askInt(ctx context.Context, driver Driver, message, help string, current, minimum int) (int, error) {
	validate := func(answer string) error {
		_, err := parseCount(answer, minimum)
		return err
	}
	answer, err := driver.Input(ctx, InputConfig{
		Message:   message,
		Help:      help,
		Default:   strconv.Itoa(current),
		Validator: validate,
	})
	if err != nil {
		return 0, err
	}
	return parseCount(answer, minimum)
}

func parseCount(answer string, minimum int) (int, error) {
	value, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(answer), "_", ""))
	if err != nil {
		return 0, fmt.Errorf("prompt: %q is not a whole number", answer)
	}
	if value < minimum {
		return 0, fmt.Errorf("prompt: %d is below the minimum of %d", value, minimum)
	}
	return value, nil
}

func validateSeed(answer string) error {
	_, err := parseSeed(answer)
	return err
}

func parseSeed(answer string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(answer), 10, 64)
	if err != nil {
		return 0, errors.New("prompt: seed must be an integer")
	}
	return value, nil
}
