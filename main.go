package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/command"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/command/client"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/command/configcmd"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/command/render"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/command/server"
	"github.com/lwmacct/251207-go-pkg-htmlstream/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    version.AppRawName,
		Usage:   "流式 HTML 模板演示",
		Version: version.GetVersion(),
		Flags:   []cli.Flag{command.DebugFlag()},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			command.SetupLogger(cmd)
			return ctx, nil
		},
		Commands: []*cli.Command{
			version.Command,
			server.Command,
			client.Command,
			render.Command,
			configcmd.Command,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
