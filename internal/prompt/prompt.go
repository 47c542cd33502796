// Package prompt collects interactive choices through huh forms. It only
// resolves scalars (base URL, model id, profile name); the builder never
// blocks on user input.
package prompt

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/chazuruo/codexlink/internal/config"
	"github.com/chazuruo/codexlink/internal/detect"
	codexerrors "github.com/chazuruo/codexlink/internal/errors"
)

// wrapCancel maps a huh abort onto the shared canceled sentinel.
func wrapCancel(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return codexerrors.ErrCanceled
	}
	return err
}

// PickBaseURL asks for the server base URL. Detected URLs come first,
// followed by the common presets and a manual-entry escape hatch.
func PickBaseURL(detected string) (string, error) {
	const custom = "custom"

	var options []huh.Option[string]
	if detected != "" {
		options = append(options, huh.NewOption(
			fmt.Sprintf("%s (detected)", detected), detected))
	}
	for _, url := range config.CommonBaseURLs {
		if url == detected {
			continue
		}
		label := fmt.Sprintf("%s  [%s]", url, config.ProviderLabel(config.ResolveProvider(url)))
		options = append(options, huh.NewOption(label, url))
	}
	options = append(options, huh.NewOption("Enter a URL manually", custom))

	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Server base URL").
			Options(options...).
			Value(&choice),
	)).Run()
	if err != nil {
		return "", wrapCancel(err)
	}
	if choice != custom {
		return choice, nil
	}

	var url string
	err = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Base URL").
			Description("OpenAI-compatible endpoint, e.g. http://localhost:1234/v1").
			Placeholder(config.DefaultLMStudio).
			Value(&url).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("base URL is required")
				}
				return nil
			}),
	)).Run()
	if err != nil {
		return "", wrapCancel(err)
	}
	return url, nil
}

// PickModel asks the user to choose among the server's models.
func PickModel(models []detect.Model) (string, error) {
	if len(models) == 0 {
		return "", fmt.Errorf("server reported no models")
	}

	options := make([]huh.Option[string], 0, len(models))
	for _, m := range models {
		label := m.ID
		if m.ContextWindow > 0 {
			label = fmt.Sprintf("%s  (ctx %d)", m.ID, m.ContextWindow)
		}
		options = append(options, huh.NewOption(label, m.ID))
	}

	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Model").
			Options(options...).
			Value(&choice),
	)).Run()
	if err != nil {
		return "", wrapCancel(err)
	}
	return choice, nil
}

// PickProfile asks for the profile name, defaulting to the provider id.
func PickProfile(defaultName string) (string, error) {
	name := defaultName
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Profile name").
			Description("Invoked later with --profile <name>").
			Placeholder(defaultName).
			Value(&name),
	)).Run()
	if err != nil {
		return "", wrapCancel(err)
	}
	if name == "" {
		name = defaultName
	}
	return name, nil
}

// ConfirmOverwriteProfile asks before replacing an existing profile table.
func ConfirmOverwriteProfile(name string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Profile %q already exists in config.toml. Overwrite it?", name)).
			Value(&ok),
	)).Run()
	if err != nil {
		return false, wrapCancel(err)
	}
	return ok, nil
}
