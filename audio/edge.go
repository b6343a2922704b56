package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"shortreel/config"
	"shortreel/types"
)

const (
	edgeEndpoint       = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	trustedClientToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeOrigin         = "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold"

	// word boundary offsets arrive in 100ns ticks
	ticksPerSecond = 10_000_000.0

	// shortest window a word may occupy; the service sometimes reports a
	// zero duration for clipped final words
	minWordDurationS = 0.01
)

// EdgeSpeech synthesizes narration through the Edge read-aloud service.
// The service streams MP3 frames interleaved with WordBoundary metadata,
// which is where the word-level timings come from.
type EdgeSpeech struct {
	voice    string
	rate     string
	endpoint string
	dialer   *websocket.Dialer
	log      zerolog.Logger
}

// NewEdgeSpeech creates the TTS client
func NewEdgeSpeech(cfg config.AudioConfig, log zerolog.Logger) *EdgeSpeech {
	return &EdgeSpeech{
		voice:    cfg.Voice,
		rate:     cfg.Rate,
		endpoint: edgeEndpoint,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
		},
		log: log.With().Str("component", "tts").Logger(),
	}
}

// Synthesize writes narration audio for text to outFile and returns the
// word timings in seconds from audio start
func (e *EdgeSpeech) Synthesize(ctx context.Context, text, outFile string) ([]types.WordTiming, error) {
	// one id identifies both the connection and the SSML request
	reqID := connectionID()
	wsURL := fmt.Sprintf("%s?TrustedClientToken=%s&ConnectionId=%s",
		e.endpoint, trustedClientToken, reqID)

	header := http.Header{}
	header.Set("Origin", edgeOrigin)
	header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")

	conn, resp, err := e.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("edge tts dial: %w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("edge tts dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	} else {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Minute))
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(speechConfigMessage())); err != nil {
		return nil, fmt.Errorf("edge tts config: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMessage(reqID, buildSSML(text, e.voice, e.rate)))); err != nil {
		return nil, fmt.Errorf("edge tts ssml: %w", err)
	}

	var audio bytes.Buffer
	var timings []types.WordTiming

stream:
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("edge tts stream: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			switch messagePath(data) {
			case "audio.metadata":
				words, err := parseBoundaryMetadata(messageBody(data))
				if err != nil {
					// timings degrade to none, audio still usable
					e.log.Warn().Err(err).Msg("bad word boundary metadata, skipping")
					continue
				}
				timings = mergeBoundaries(timings, words)
			case "turn.end":
				break stream
			}
		case websocket.BinaryMessage:
			payload, err := audioPayload(data)
			if err != nil {
				return nil, fmt.Errorf("edge tts frame: %w", err)
			}
			audio.Write(payload)
		}
	}

	if audio.Len() == 0 {
		return nil, fmt.Errorf("edge tts produced no audio for %q", truncate(text, 40))
	}
	if err := os.WriteFile(outFile, audio.Bytes(), 0644); err != nil {
		return nil, err
	}

	e.log.Debug().Int("bytes", audio.Len()).Int("words", len(timings)).Str("file", outFile).
		Msg("narration synthesized")
	return timings, nil
}

func connectionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func timestampHeader() string {
	return time.Now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")
}

func speechConfigMessage() string {
	return "X-Timestamp:" + timestampHeader() + "\r\n" +
		"Content-Type:application/json; charset=utf-8\r\n" +
		"Path:speech.config\r\n\r\n" +
		`{"context":{"synthesis":{"audio":{"metadataoptions":{"sentenceBoundaryEnabled":"false","wordBoundaryEnabled":"true"},"outputFormat":"audio-24khz-48kbitrate-mono-mp3"}}}}`
}

func ssmlMessage(requestID, ssml string) string {
	return "X-RequestId:" + requestID + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"X-Timestamp:" + timestampHeader() + "\r\n" +
		"Path:ssml\r\n\r\n" +
		ssml
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func buildSSML(text, voice, rate string) string {
	return fmt.Sprintf(
		`<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'>`+
			`<voice name='%s'><prosody pitch='+0Hz' rate='%s' volume='+0%%'>%s</prosody></voice></speak>`,
		voice, rate, xmlEscaper.Replace(text))
}

// messagePath extracts the Path header of a text frame
func messagePath(data []byte) string {
	head, _, ok := bytes.Cut(data, []byte("\r\n\r\n"))
	if !ok {
		return ""
	}
	for _, line := range strings.Split(string(head), "\r\n") {
		if name, value, ok := strings.Cut(line, ":"); ok && name == "Path" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func messageBody(data []byte) []byte {
	_, body, ok := bytes.Cut(data, []byte("\r\n\r\n"))
	if !ok {
		return nil
	}
	return body
}

// audioPayload strips the length-prefixed header of a binary frame.
// Layout: 2-byte big-endian header length, header text, MP3 payload.
func audioPayload(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("binary frame too short (%d bytes)", len(data))
	}
	headerLen := int(binary.BigEndian.Uint16(data[:2]))
	if len(data) < 2+headerLen {
		return nil, fmt.Errorf("binary frame header overruns frame")
	}
	header := data[2 : 2+headerLen]
	if !bytes.Contains(header, []byte("Path:audio")) {
		return nil, nil
	}
	return data[2+headerLen:], nil
}

type boundaryMetadata struct {
	Metadata []struct {
		Type string `json:"Type"`
		Data struct {
			Offset   float64 `json:"Offset"`
			Duration float64 `json:"Duration"`
			Text     struct {
				Text string `json:"Text"`
			} `json:"text"`
		} `json:"Data"`
	} `json:"Metadata"`
}

// parseBoundaryMetadata converts WordBoundary events from ticks to seconds.
// Every timing it returns satisfies EndS > StartS; zero-duration boundaries
// are floored to the minimum window.
func parseBoundaryMetadata(body []byte) ([]types.WordTiming, error) {
	var meta boundaryMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, err
	}

	var words []types.WordTiming
	for _, m := range meta.Metadata {
		if m.Type != "WordBoundary" {
			continue
		}
		start := m.Data.Offset / ticksPerSecond
		end := start + m.Data.Duration/ticksPerSecond
		if end <= start {
			end = start + minWordDurationS
		}
		words = append(words, types.WordTiming{
			Word:   m.Data.Text.Text,
			StartS: start,
			EndS:   end,
		})
	}
	return words, nil
}

// mergeBoundaries appends words to timings, dropping any boundary whose
// start regresses below the last accepted one. Starts stay non-decreasing
// so captions always render in spoken order.
func mergeBoundaries(timings, words []types.WordTiming) []types.WordTiming {
	for _, w := range words {
		if n := len(timings); n > 0 && w.StartS < timings[n-1].StartS {
			continue
		}
		timings = append(timings, w)
	}
	return timings
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
