package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"adcraft/internal/controller"
	"adcraft/internal/domain/adcopy"
	"adcraft/internal/infra"
	"adcraft/internal/providers/copywriter"
)

// errGenerationFailed marks a run whose message was already printed.
var errGenerationFailed = errors.New("generation failed")

type generateFlags struct {
	product     string
	description string
	audience    string
	platform    string
	tone        string
	length      string
	locale      string
	provider    string
	timeout     time.Duration
	asJSON      bool
}

type jsonResult struct {
	adcopy.AdResponse
	DisplayHashtags string `json:"displayHashtags"`
}

func newGenerateCmd(verbose *bool) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ad copy for a product",
		Example: `  adcraft generate --product "EcoGlow" --description "Solar garden lights" --platform instagram --tone friendly
  adcraft generate --product "Kopi Senja" --description "Es kopi susu gula aren" --locale id --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f, *verbose)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.product, "product", "", "Product name (required)")
	flags.StringVar(&f.description, "description", "", "Product description (required)")
	flags.StringVar(&f.audience, "audience", "", "Target audience")
	flags.StringVar(&f.platform, "platform", "", "Advertising platform (see 'adcraft options')")
	flags.StringVar(&f.tone, "tone", "", "Tone of voice")
	flags.StringVar(&f.length, "length", "", "Copy length: short, medium or long")
	flags.StringVar(&f.locale, "locale", "", "Output language as a BCP 47 tag, e.g. id or pt-BR")
	flags.StringVar(&f.provider, "provider", "", "Override COPY_PROVIDER (genai, gemini, openai, static)")
	flags.DurationVar(&f.timeout, "timeout", 2*time.Minute, "Give up waiting after this long")
	flags.BoolVar(&f.asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func runGenerate(cmd *cobra.Command, f generateFlags, verbose bool) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	if f.provider != "" {
		cfg.CopyProvider = strings.ToLower(f.provider)
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = f.timeout
	}
	logger := infra.NewCLILogger(verbose)

	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	defer cancel()

	backend, err := copywriter.NewBackend(ctx, cfg.Backend(), logger)
	if err != nil {
		return fmt.Errorf("configure %s provider: %w", cfg.CopyProvider, err)
	}
	client := copywriter.NewClient(backend, copywriter.WithLogger(logger))

	ctrl := controller.New(client, controller.WithLogger(logger), controller.WithLocale(f.locale))
	if err := fillForm(ctrl, f); err != nil {
		return err
	}

	st, err := ctrl.Submit(ctx).Wait(ctx)
	if err != nil {
		// Skip Close: it would block on the abandoned upstream call.
		return fmt.Errorf("waiting for %s: %w", client.Provider(), err)
	}
	ctrl.Close()
	return render(cmd.OutOrStdout(), cmd.ErrOrStderr(), st, f.asJSON)
}

// fillForm copies flags into the form. Empty option flags keep the defaults.
func fillForm(ctrl *controller.Controller, f generateFlags) error {
	entries := []struct {
		field adcopy.Field
		value string
		text  bool
	}{
		{adcopy.FieldProductName, f.product, true},
		{adcopy.FieldDescription, f.description, true},
		{adcopy.FieldTargetAudience, f.audience, true},
		{adcopy.FieldPlatform, f.platform, false},
		{adcopy.FieldTone, f.tone, false},
		{adcopy.FieldLength, f.length, false},
	}
	for _, e := range entries {
		if !e.text && e.value == "" {
			continue
		}
		if err := ctrl.UpdateField(e.field, e.value); err != nil {
			return fmt.Errorf("--%s: %w", flagName(e.field), err)
		}
	}
	return nil
}

func flagName(field adcopy.Field) string {
	switch field {
	case adcopy.FieldProductName:
		return "product"
	case adcopy.FieldTargetAudience:
		return "audience"
	default:
		return field.String()
	}
}

func render(out, errOut io.Writer, st controller.State, asJSON bool) error {
	if st.Phase != controller.PhaseSuccess || st.Result == nil {
		msg := st.Message
		if msg == "" {
			msg = controller.FallbackMessage
		}
		fmt.Fprintln(errOut, msg)
		return errGenerationFailed
	}

	res := st.Result
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonResult{AdResponse: *res, DisplayHashtags: res.DisplayHashtags()})
	}

	fmt.Fprintln(out, res.PlainText())
	if res.Explanation != "" {
		fmt.Fprintf(out, "\nWhy it works: %s\n", res.Explanation)
	}
	return nil
}
