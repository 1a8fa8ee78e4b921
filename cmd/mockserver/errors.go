package main

import (
	"errors"
	"strings"

	"github.com/raywall/fast-mock-server/pkg/config"
	"github.com/raywall/fast-mock-server/pkg/dispatch"
	"github.com/raywall/fast-mock-server/pkg/loader"
)

// describe traduz o erro para a linha impressa em stderr.
func describe(err error) string {
	var (
		notFound   *loader.NotFoundError
		parseErr   *config.ParseError
		shapeErr   *config.ShapeError
		validation *config.ValidationError
		bindErr    *dispatch.BindError
	)

	switch {
	case errors.As(err, &notFound):
		return "Error: Config file not found at " + notFound.Source
	case errors.As(err, &parseErr):
		return "Error: Config file is not a valid JSON. " + parseErr.Err.Error()
	case errors.As(err, &shapeErr):
		return "Error: Config file is not a valid JSON object."
	case errors.As(err, &validation):
		return "Validation Error: " + strings.Join(validation.Messages(), ", ")
	case errors.As(err, &bindErr):
		return "Error: " + bindErr.Error()
	default:
		return "Error: " + err.Error()
	}
}
