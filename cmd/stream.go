package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vms-e2e/internal/auth"
	"vms-e2e/internal/stream"
)

var (
	streamQuery   []string
	streamSend    []string
	streamExpect  string
	streamDir     string
	streamTimeout time.Duration
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Talk to the media WebSocket",
}

var streamWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Send commands and wait for a matching frame",
	Long: `Connects to /ws, sends every --send JSON object in order and waits until
a frame matching --expect is seen. String values in --expect that look like
/regexp/ are matched as regular expressions and "*" only requires the key.`,
	Example: `  vms-e2e stream watch --send '{"method":"play","streamId":"s1","speed":1}' --expect '{"streamId":"s1","jpeg":"*"}'`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		query := url.Values{}
		for _, kv := range streamQuery {
			k, v, _ := strings.Cut(kv, "=")
			query.Add(k, v)
		}
		wsURL, err := stream.URL(cfg.ServerURL, query)
		if err != nil {
			fail("building stream URL", err)
		}

		pattern, err := parsePattern(streamExpect)
		if err != nil {
			fail("parsing --expect", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), streamTimeout)
		defer cancel()

		header := http.Header{}
		header.Set("Authorization", auth.BasicToken(cfg.Username, cfg.Password))
		s, err := stream.Dial(ctx, wsURL, stream.DialOptions{Header: header, InsecureTLS: cfg.InsecureTLS})
		if err != nil {
			fail("connecting", err)
		}
		defer s.Close()

		for _, raw := range streamSend {
			if err := s.Send(json.RawMessage(raw)); err != nil {
				fail("sending", err)
			}
		}

		f, err := s.Wait(ctx, stream.Direction(streamDir), pattern)
		if err != nil {
			fmt.Printf("No matching frame after %d frames: %v\n", len(s.Frames()), err)
			s.Close()
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(f)
			return
		}
		fmt.Printf("%s %s %s\n", f.Time.Format("15:04:05.000"), f.Direction, string(f.Data))
	},
}

// parsePattern decodes a JSON object where "*" means Present and "/re/" a
// regular expression.
func parsePattern(s string) (stream.Pattern, error) {
	if s == "" {
		return stream.Pattern{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	return convertPattern(raw)
}

func convertPattern(raw map[string]any) (stream.Pattern, error) {
	p := make(stream.Pattern, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			switch {
			case val == "*":
				p[k] = stream.Present
			case len(val) > 1 && strings.HasPrefix(val, "/") && strings.HasSuffix(val, "/"):
				re, err := regexp.Compile(val[1 : len(val)-1])
				if err != nil {
					return nil, fmt.Errorf("%s: %w", k, err)
				}
				p[k] = re
			default:
				p[k] = val
			}
		case map[string]any:
			nested, err := convertPattern(val)
			if err != nil {
				return nil, err
			}
			p[k] = nested
		default:
			p[k] = val
		}
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(streamCmd)
	streamCmd.AddCommand(streamWatchCmd)

	streamWatchCmd.Flags().StringArrayVar(&streamQuery, "query", nil, "Query parameter for /ws as key=value (repeatable)")
	streamWatchCmd.Flags().StringArrayVar(&streamSend, "send", nil, "JSON frame to send (repeatable)")
	streamWatchCmd.Flags().StringVar(&streamExpect, "expect", "", "JSON pattern the frame must contain")
	streamWatchCmd.Flags().StringVar(&streamDir, "direction", string(stream.Incoming), "Frame direction: incoming or outgoing")
	streamWatchCmd.Flags().DurationVar(&streamTimeout, "timeout", 30*time.Second, "How long to wait")
}
