package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"
)

func runWeather(ctx context.Context, w io.Writer, args []string) error {
	svc, err := buildFlows(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	return printJSON(w, svc.weather.GetWeather(ctx, strings.Join(args, " ")))
}

func runPrices(ctx context.Context, w io.Writer, args []string) error {
	svc, err := buildFlows(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	return printJSON(w, svc.market.GetMarketPrices(ctx, strings.Join(args, " ")))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
