package main

// Cliente de validação manual: pede um desafio, resolve e pede o airdrop duas
// vezes seguidas. A segunda deve voltar 429 com Retry-After.
//
//	go run ./teste-validacao/cliente-airdrop -url http://localhost:8081 -pk <endereço>

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type challenge struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

func main() {
	base := flag.String("url", "http://localhost:8081", "faucet base URL")
	pk := flag.String("pk", "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", "recipient public key")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	client := &http.Client{Timeout: 90 * time.Second}

	for i := 1; i <= 2; i++ {
		ch, err := getChallenge(client, *base)
		if err != nil {
			log.Fatal().Err(err).Msg("challenge request failed")
		}

		var a, b int
		if _, err := fmt.Sscanf(ch.Question, "%d + %d = ?", &a, &b); err != nil {
			log.Fatal().Err(err).Str("question", ch.Question).Msg("unexpected question format")
		}

		body, _ := json.Marshal(map[string]any{
			"public_key":      *pk,
			"math_session_id": ch.SessionID,
			"math_answer":     a + b,
		})
		resp, err := client.Post(*base+"/airdrop", "application/json", bytes.NewReader(body))
		if err != nil {
			log.Fatal().Err(err).Msg("airdrop request failed")
		}
		out, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		log.Info().
			Int("attempt", i).
			Int("status", resp.StatusCode).
			Str("retry_after", resp.Header.Get("Retry-After")).
			Str("body", string(bytes.TrimSpace(out))).
			Msg("airdrop response")
	}
}

func getChallenge(client *http.Client, base string) (challenge, error) {
	resp, err := client.Get(base + "/challenge")
	if err != nil {
		return challenge{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return challenge{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var ch challenge
	err = json.NewDecoder(resp.Body).Decode(&ch)
	return ch, err
}
