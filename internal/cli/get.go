package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-service/internal/app"
	"github.com/jsamuelsen/quote-service/internal/app/render"
	"github.com/jsamuelsen/quote-service/internal/domain"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
)

const getLongDesc string = `Print one quote as JSON or render it as SVG.

With an id the quote is looked up directly and --type is ignored.
Without one a random quote is chosen, restricted to --type when set.
Width and height follow the same bounds as the HTTP API.

Examples:
  quotectl get 3
  quotectl get --type inspiration --format svg --theme dark -o quote.svg
  quotectl get 1 --format svg --width 600 --no-avatar`

type getCommander struct {
	opts      *options
	version   string
	quoteType string
	format    string
	theme     string
	width     int
	height    int
	noAvatar  bool
	output    string
}

func newGetCmd(opts *options, version string) *cobra.Command {
	cmder := &getCommander{opts: opts, version: version}

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Print or render a quote",
		Long:  getLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args)
		},
	}

	cmd.Flags().StringVarP(&cmder.quoteType, "type", "t", "", "Quote type for random selection")
	cmd.Flags().StringVarP(&cmder.format, "format", "f", "json", "Output format: json or svg")
	cmd.Flags().StringVar(&cmder.theme, "theme", "", "SVG theme: light or dark")
	cmd.Flags().IntVar(&cmder.width, "width", dto.DefaultWidth, "SVG width in pixels")
	cmd.Flags().IntVar(&cmder.height, "height", dto.DefaultHeight, "SVG height in pixels")
	cmd.Flags().BoolVar(&cmder.noAvatar, "no-avatar", false, "Do not download author avatars")
	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Write to this file instead of stdout")

	return cmd
}

func (c *getCommander) run(ctx context.Context, cmd *cobra.Command, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	query := dto.QuoteQuery{
		QuoteType:    c.quoteType,
		ResponseType: c.format,
		Theme:        c.theme,
		Width:        &c.width,
		Height:       &c.height,
	}

	id := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: must be an integer", args[0])
		}
		id = n
		query.QuoteType = ""
	}

	opts, err := query.Options()
	if err != nil {
		return err
	}

	cfg, err := c.opts.loadConfig()
	if err != nil {
		return err
	}

	service, err := c.newService(cmd, cfg)
	if err != nil {
		return err
	}

	var quote *domain.Quote
	if len(args) == 1 {
		quote, err = service.GetQuoteByID(ctx, id)
	} else {
		quote, err = service.GetRandomQuote(ctx, opts.Type)
	}
	if err != nil {
		return err
	}

	var body []byte
	if opts.Format == domain.ResponseFormatSVG {
		body = []byte(service.RenderQuote(ctx, quote, opts.Render))
	} else {
		body, err = json.Marshal(dto.NewQuoteResponse(quote))
		if err != nil {
			return fmt.Errorf("encoding quote: %w", err)
		}
		body = append(body, '\n')
	}

	return c.write(cmd.OutOrStdout(), body)
}

// newService assembles the same store, renderer and avatar client the
// service uses.
func (c *getCommander) newService(cmd *cobra.Command, cfg *config.Config) (*app.QuoteService, error) {
	logger := c.opts.logger(cmd)

	store, err := c.opts.openStore(cfg)
	if err != nil {
		return nil, err
	}

	renderCfg := render.Config{AvatarTimeout: cfg.Avatar.Timeout}
	if cfg.Avatar.Enabled && !c.noAvatar {
		avatars, err := acl.NewAvatarClientFromConfig(&cfg.Avatar, "quotectl/"+c.version, logger)
		if err != nil {
			return nil, fmt.Errorf("creating avatar client: %w", err)
		}
		renderCfg.Avatars = avatars
	}

	return app.NewQuoteService(app.QuoteServiceConfig{
		Repository: store,
		Renderer:   render.New(renderCfg),
		Logger:     logger,
	}), nil
}

func (c *getCommander) write(stdout io.Writer, body []byte) error {
	if c.output == "" {
		_, err := stdout.Write(body)
		return err
	}

	if err := os.WriteFile(c.output, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.output, err)
	}

	return nil
}
