package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rojolang/hound-sdk-go/pkg/hound"
	"github.com/rojolang/hound-sdk-go/pkg/hound/capture"
	"github.com/spf13/cobra"
)

const silenceThreshold = 0.01

var (
	verbose         bool
	envFile         string
	credentialsFile string
	baseURL         string
	infoJSON        string
	jqExpr          string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "hound",
		Short:        "Hound SDK Go CLI",
		Long:         "A command-line interface for sending text and speech queries with the Hound SDK",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load %s: %w", envFile, err)
				}
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file")
	rootCmd.PersistentFlags().StringVar(&credentialsFile, "credentials", "", "JSON or YAML file with client_id and client_key")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL")
	rootCmd.PersistentFlags().StringVar(&infoJSON, "info", "", "RequestInfo as a JSON object")
	rootCmd.PersistentFlags().StringVar(&jqExpr, "jq", "", "jq expression applied to the JSON output")

	rootCmd.AddCommand(textCmd())
	rootCmd.AddCommand(speechCmd())
	rootCmd.AddCommand(converseCmd())
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(configCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		hound.GetGlobalLogger().WithError(err).Fatal("CLI execution failed")
	}
}

func textCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text QUERY...",
		Short: "Send a text query",
		Long:  "Send a single text query and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			info, err := parseInfo()
			if err != nil {
				return err
			}

			resp, err := client.Text(cmd.Context(), strings.Join(args, " "), info)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
	return cmd
}

func speechCmd() *cobra.Command {
	var (
		file     string
		record   time.Duration
		deviceID int
	)

	cmd := &cobra.Command{
		Use:   "speech",
		Short: "Send a speech query",
		Long:  "Send a WAV file, or a fresh microphone recording, as a speech query",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (record <= 0) {
				return fmt.Errorf("exactly one of --file or --record is required")
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			info, err := parseInfo()
			if err != nil {
				return err
			}

			var audio []byte
			if file != "" {
				audio, err = readAudioFile(cmd.InOrStdin(), file)
			} else {
				audio, err = recordAudio(cmd.Context(), record, deviceID)
			}
			if err != nil {
				return err
			}

			resp, err := client.Speech(cmd.Context(), audio, info)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "WAV file to send, - for stdin")
	cmd.Flags().DurationVarP(&record, "record", "r", 0, "Record from the microphone for this long, e.g. 5s")
	cmd.Flags().IntVar(&deviceID, "device", -1, "Input device id (see 'hound devices')")
	return cmd
}

func converseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "converse",
		Short: "Hold a multi-turn text conversation",
		Long:  "Read one query per line from stdin, carrying conversation state between turns",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			info, err := parseInfo()
			if err != nil {
				return err
			}

			conv := client.Converse()
			out := cmd.OutOrStdout()
			prompt := cmd.ErrOrStderr()
			scanner := bufio.NewScanner(cmd.InOrStdin())

			fmt.Fprint(prompt, "> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					fmt.Fprint(prompt, "> ")
					continue
				case "exit", "quit":
					return nil
				}

				resp, err := conv.Text(cmd.Context(), line, info)
				if err != nil {
					if hound.IsValidationError(err) {
						return err
					}
					fmt.Fprintf(prompt, "error: %v\n", err)
				} else if err := printResponse(out, resp); err != nil {
					return err
				}
				fmt.Fprint(prompt, "> ")
			}
			return scanner.Err()
		},
	}
	return cmd
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the RequestInfo JSON Schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.Marshal(hound.RequestInfoJSONSchema())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	return cmd
}

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List audio input devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := capture.ListInputDevices()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(devices) == 0 {
				fmt.Fprintln(out, "No input devices found")
				return nil
			}
			fmt.Fprintln(out, "Input Devices (* = default):")
			for _, device := range devices {
				fmt.Fprintln(out, device)
			}
			return nil
		},
	}
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		Long:  "Display the effective configuration and any validation issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			out := cmd.OutOrStdout()
			config.PrintConfig(out)

			issues := config.Validate()
			if len(issues) == 0 {
				fmt.Fprintln(out, "\nConfiguration OK")
				return nil
			}
			fmt.Fprintln(out, "\nIssues:")
			for _, issue := range issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
			return nil
		},
	}
	return cmd
}

// loadConfig reads the environment and applies the global flags on top.
func loadConfig() *hound.HoundConfig {
	config := hound.NewHoundConfig()
	if credentialsFile != "" {
		config.ClientID = ""
		config.ClientKey = ""
		config.CredentialsFile = credentialsFile
	}
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	level := hound.ParseLogLevel(config.DebugLevel)
	if verbose {
		level = hound.DebugLevel
	}
	logger := hound.NewHoundLogger(&hound.LogConfig{
		Level:  level,
		Pretty: true,
		Output: os.Stderr,
	})
	hound.SetGlobalLogger(logger)
	config.Logger = logger
	return config
}

func newClient() (*hound.Client, error) {
	return hound.NewClient(loadConfig())
}

func parseInfo() (hound.RequestInfo, error) {
	if infoJSON == "" {
		return nil, nil
	}
	var info hound.RequestInfo
	dec := json.NewDecoder(strings.NewReader(infoJSON))
	dec.UseNumber()
	if err := dec.Decode(&info); err != nil {
		return nil, fmt.Errorf("parse --info: %w", err)
	}
	return info, nil
}

func readAudioFile(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func recordAudio(ctx context.Context, d time.Duration, deviceID int) ([]byte, error) {
	audioConfig := capture.NewConfig()
	if deviceID >= 0 {
		audioConfig.DeviceID = &deviceID
	}

	fmt.Fprintf(os.Stderr, "Recording for %s...\n", d)
	samples, err := capture.NewPortAudioRecorder(audioConfig).Record(ctx, d)
	if err != nil {
		return nil, err
	}
	if hound.CalculateRMS(samples) < silenceThreshold {
		hound.GetGlobalLogger().Warn("Recording looks silent; check the input device")
	}
	return hound.EncodeWAV(samples, audioConfig.SampleRate, audioConfig.Channels)
}
