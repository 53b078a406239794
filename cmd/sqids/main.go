// Package main provides the sqids command line tool.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/gourl/sqids/internal/config"
	"github.com/gourl/sqids/pkg/sqids"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:    "sqids",
		Usage:   "Encode numbers into short ids and decode them back",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "alphabet",
				Aliases: []string{"a"},
				Usage:   "Alphabet to draw id characters from",
				EnvVars: []string{"SQIDS_ALPHABET"},
			},
			&cli.IntFlag{
				Name:    "min-length",
				Aliases: []string{"m"},
				Usage:   "Minimum id length",
				EnvVars: []string{"SQIDS_MIN_LENGTH"},
			},
			&cli.StringFlag{
				Name:    "blocklist-file",
				Aliases: []string{"b"},
				Usage:   "File of extra blocked words, one per line",
				EnvVars: []string{"SQIDS_BLOCKLIST_FILE"},
			},
			&cli.BoolFlag{
				Name:  "no-blocklist",
				Usage: "Do not block the built-in word list",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Aliases:   []string{"e"},
				Usage:     "Encode numbers into one id",
				ArgsUsage: "[numbers...]",
				Action: func(c *cli.Context) error {
					return runEncode(c, in, out)
				},
			},
			{
				Name:      "decode",
				Aliases:   []string{"d"},
				Usage:     "Decode ids, one result line per id",
				ArgsUsage: "[ids...]",
				Action: func(c *cli.Context) error {
					return runDecode(c, in, out)
				},
			},
		},
	}
}

func codecFromFlags(c *cli.Context) (*sqids.Sqids, error) {
	words := []string{}
	if !c.Bool("no-blocklist") {
		words = append(words, sqids.DefaultBlocklist()...)
	}
	if path := c.String("blocklist-file"); path != "" {
		extra, err := config.ReadWordList(path)
		if err != nil {
			return nil, err
		}
		words = append(words, extra...)
	}

	return sqids.New(sqids.Options{
		Alphabet:  c.String("alphabet"),
		MinLength: c.Int("min-length"),
		Blocklist: words,
	})
}

// runEncode encodes the arguments, or each line of stdin when there are none.
func runEncode(c *cli.Context, in io.Reader, out io.Writer) error {
	codec, err := codecFromFlags(c)
	if err != nil {
		return err
	}

	if c.NArg() > 0 {
		return encodeLine(codec, c.Args().Slice(), out)
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := encodeLine(codec, strings.Fields(scanner.Text()), out); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func encodeLine(codec *sqids.Sqids, fields []string, out io.Writer) error {
	numbers := make([]uint64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(strings.TrimSuffix(f, ","), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", f, err)
		}
		numbers = append(numbers, n)
	}

	id, err := codec.Encode(numbers)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, id)
	return err
}

// runDecode decodes the arguments, or each line of stdin when there are none.
func runDecode(c *cli.Context, in io.Reader, out io.Writer) error {
	codec, err := codecFromFlags(c)
	if err != nil {
		return err
	}

	ids := c.Args().Slice()
	if len(ids) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				ids = append(ids, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	for _, id := range ids {
		numbers := codec.Decode(id)
		parts := make([]string, len(numbers))
		for i, n := range numbers {
			parts[i] = strconv.FormatUint(n, 10)
		}
		if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}
