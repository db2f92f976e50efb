package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/binwarp/warp64/internal/keyio"
	"github.com/binwarp/warp64/pkg/fileops"
	"github.com/binwarp/warp64/pkg/logging"
	"github.com/binwarp/warp64/pkg/warp"
)

const version = "1.0.0"

var (
	keyFilePath string
	windowSize  int
	logLevel    string
	versionFlag bool
	rootCmd     *cobra.Command
)

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "warp64",
		Short: "Warp64 binary scrambling and descrambling",
		Long: `Warp64 binary scrambling and descrambling.

Scrambled files carry the .warp64 suffix. The output file must not
exist yet; the input file is deleted once the operation succeeds. The
scrambling key is requested on the console with echo suppressed so it
is not stored in the console history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if versionFlag {
				fmt.Printf("warp64 %s\n", version)
				fmt.Printf("Built: %s\n", getBuildTimestamp())
				return
			}
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&keyFilePath, "key-file", "", "Read the scrambling key from the first line of this file")
	rootCmd.PersistentFlags().IntVar(&windowSize, "window", 0, "Override the processing window size in bytes")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "scramble [input_path]",
		Short: "Scramble a file into input_path.warp64",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], false)
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "descramble [input_path]",
		Short: "Descramble a .warp64 file back to its original form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], true)
		},
	})
}

func run(inputPath string, descramble bool) error {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	logger := logging.NewLogger("warp64", level, os.Stderr)

	rawKey, err := readKey()
	if err != nil {
		return err
	}

	key, err := warp.DeriveKey(rawKey)
	if err != nil {
		return err
	}

	opts := []warp.Option{warp.WithLogger(logger.Named("coder"))}
	if windowSize > 0 {
		opts = append(opts, warp.WithWindowSize(windowSize))
	}
	ops := fileops.New(warp.New(key, opts...), logger)

	var outPath string
	if descramble {
		outPath, err = ops.DescrambleFile(inputPath)
	} else {
		outPath, err = ops.ScrambleFile(inputPath)
	}
	if err != nil {
		return err
	}

	fmt.Println(outPath)
	return nil
}

func readKey() (string, error) {
	if keyFilePath != "" {
		return keyio.ReadKeyFile(keyFilePath)
	}
	return keyio.Prompt()
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("warp64 %s\n", version)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
