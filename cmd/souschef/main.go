package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/coder/pretty"
	"github.com/coder/serpent"
	"github.com/hearthware/souschef"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/sashabaranov/go-openai"
)

var colorProfile = termenv.ColorProfile()

func errorf(format string, args ...any) {
	c := pretty.FgColor(colorProfile.Color("#ff0000"))
	pretty.Fprintf(os.Stderr, c, "err: "+format, args...)
}

var debugMode = os.Getenv("SOUSCHEF_DEBUG") != ""

// maxHistoryTokens bounds the conversation carried across interactive
// turns, leaving room in the model's context window for the system prompt
// and the reply.
const maxHistoryTokens = 32000

func debugf(format string, args ...any) {
	if !debugMode {
		return
	}
	// Gray
	c := pretty.FgColor(colorProfile.Color("#808080"))
	pretty.Fprintf(os.Stderr, c, "debug: "+format+"\n", args...)
}

// renderReply formats a recipe for the terminal. Raw Markdown comes back
// unchanged when stdout is not a TTY, so piped output stays clean.
func renderReply(reply string, plain bool) string {
	if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		return reply
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return reply
	}
	rendered, err := r.Render(reply)
	if err != nil {
		return reply
	}
	return rendered
}

func debugHistory(msgs []openai.ChatCompletionMessage) {
	if !debugMode {
		return
	}
	for _, msg := range msgs {
		debugf("%s: (%v tokens)\n %s\n", msg.Role, souschef.CountTokens(msg), souschef.Ellipse(msg.Content, 80))
	}
	debugf("conversation is %d tokens across %d messages", souschef.CountTokens(msgs...), len(msgs))
}

// ask sends one user turn through the assistant and prints the reply.
// It returns the updated conversation so the interactive loop can carry
// state across turns; the assistant itself keeps none.
func ask(inv *serpent.Invocation, assistant *souschef.Assistant, opts runOptions,
	history []openai.ChatCompletionMessage, question string,
) ([]openai.ChatCompletionMessage, error) {
	history = append(history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})
	debugHistory(history)

	updated, err := assistant.Respond(inv.Context(), history)
	if err != nil {
		return nil, err
	}

	reply := updated[len(updated)-1].Content
	fmt.Fprintln(inv.Stdout, renderReply(reply, opts.plain))
	return updated, nil
}

func run(inv *serpent.Invocation, opts runOptions) error {
	assistant := souschef.NewAssistant(opts.client, opts.model)

	if len(inv.Args) > 0 {
		_, err := ask(inv, assistant, opts, nil, strings.Join(inv.Args, " "))
		return err
	}

	// Interactive mode. The conversation accumulates here, in the caller.
	promptColor := pretty.FgColor(colorProfile.Color("#2FA8FF"))
	var history []openai.ChatCompletionMessage

	scanner := bufio.NewScanner(inv.Stdin)
	for {
		pretty.Fprintf(inv.Stdout, promptColor, "you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		if trimmed := souschef.TrimHistory(history, maxHistoryTokens); len(trimmed) < len(history) {
			debugf("dropped %d old messages to stay under %d tokens", len(history)-len(trimmed), maxHistoryTokens)
			history = trimmed
		}

		var err error
		history, err = ask(inv, assistant, opts, history, line)
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

type runOptions struct {
	client  *openai.Client
	model   string
	baseURL string
	plain   bool
}

func main() {
	var (
		opts         runOptions
		cliOpenAIKey string
		doSaveKey    bool
	)
	cmd := &serpent.Command{
		Use:   "souschef [question]",
		Short: "souschef is a recipe assistant; ask it what to cook",
		Handler: func(inv *serpent.Invocation) error {
			savedKey, err := loadKey()
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			var openAIKey string
			if savedKey != "" && cliOpenAIKey == "" {
				openAIKey = savedKey
			} else if cliOpenAIKey != "" {
				openAIKey = cliOpenAIKey
			}

			if savedKey != "" && cliOpenAIKey != "" {
				openAIKeyOpt := inv.Command.Options.ByName("openai-key")
				if openAIKeyOpt == nil {
					panic("openai-key option not found")
				}
				// savedKey overrides cliOpenAIKey only when set via
				// environment.
				if openAIKeyOpt.ValueSource == serpent.ValueSourceEnv {
					openAIKey = savedKey
				}
			}

			if openAIKey == "" {
				return errors.New("$OPENAI_API_KEY is not set")
			}

			if doSaveKey {
				err := saveKey(cliOpenAIKey)
				if err != nil {
					return err
				}

				kp, err := keyPath()
				if err != nil {
					return err
				}

				fmt.Fprintf(inv.Stdout, "Saved OpenAI API key to %s\n", kp)
				return nil
			}

			if opts.baseURL != "" {
				cfg := openai.DefaultConfig(openAIKey)
				cfg.BaseURL = opts.baseURL
				opts.client = openai.NewClientWithConfig(cfg)
			} else {
				opts.client = openai.NewClient(openAIKey)
			}
			return run(inv, opts)
		},
		Options: []serpent.Option{
			{
				Name:        "openai-key",
				Description: "The OpenAI API key to use.",
				Env:         "OPENAI_API_KEY",
				Flag:        "openai-key",
				Value:       serpent.StringOf(&cliOpenAIKey),
			},
			{
				Name:          "model",
				Description:   "The model to use, e.g. gpt-4o or gpt-4o-mini.",
				Flag:          "model",
				FlagShorthand: "m",
				Default:       souschef.DefaultModel,
				Env:           "MODEL_NAME",
				Value:         serpent.StringOf(&opts.model),
			},
			{
				Name:        "base-url",
				Description: "Override the OpenAI API base URL, e.g. for a compatible local server.",
				Flag:        "base-url",
				Env:         "OPENAI_BASE_URL",
				Value:       serpent.StringOf(&opts.baseURL),
			},
			{
				Name:        "save-key",
				Description: "Save the OpenAI API key to persistent local configuration and exit.",
				Flag:        "save-key",
				Value:       serpent.BoolOf(&doSaveKey),
			},
			{
				Name:        "plain",
				Description: "Print replies as raw Markdown without terminal rendering.",
				Flag:        "plain",
				Value:       serpent.BoolOf(&opts.plain),
			},
		},
		Children: []*serpent.Command{
			versionCmd(),
		},
	}

	err := cmd.Invoke().WithOS().Run()
	if err != nil {
		var unknownCmdErr *serpent.UnknownSubcommandError
		if errors.As(err, &unknownCmdErr) {
			// Unknown command is printed by the help function for some reason.
			os.Exit(1)
		}
		var runCommandErr *serpent.RunCommandError
		if errors.As(err, &runCommandErr) {
			errorf("%s\n", runCommandErr.Err)
			os.Exit(1)
		}

		errorf("%s\n", err)
		os.Exit(1)
	}
}
