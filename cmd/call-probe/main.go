package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"agronomo-ia/internal/config"
	"agronomo-ia/internal/logging"
	"agronomo-ia/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type frame struct {
	Type            string `json:"type"`
	State           string `json:"state"`
	ConversationURL string `json:"conversation_url"`
	ConversationID  string `json:"conversation_id"`
	Error           string `json:"error"`
	Command         string `json:"command"`
}

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadProbe()
	if err != nil {
		log.Fatal().Err(err).Msg("load probe config failed")
	}
	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("probe failed")
		os.Exit(1)
	}
}

// run starts one attempt over the state channel and waits for it to settle.
func run(cfg config.ProbeConfig) error {
	conn, _, err := websocket.DefaultDialer.Dial(cfg.WSURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	deadline := time.Now().Add(cfg.Timeout)
	_ = conn.SetReadDeadline(deadline)

	started := false
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		if f.Type == ws.TypeCommandResult {
			return fmt.Errorf("%s rejected: %s", f.Command, f.Error)
		}
		if f.Type != ws.TypeState {
			continue
		}
		log.Info().Str("state", f.State).Msg("state")

		switch f.State {
		case "idle":
			if started {
				return nil
			}
			started = true
			if err := conn.WriteJSON(ws.StartMessage{
				Type:      ws.TypeStart,
				ReplicaID: cfg.ReplicaID,
				PersonaID: cfg.PersonaID,
				Language:  cfg.Language,
			}); err != nil {
				return err
			}
		case "connected":
			log.Info().Str("conversation_id", f.ConversationID).Str("conversation_url", f.ConversationURL).Msg("conversation ready")
			if !cfg.Leave {
				return nil
			}
			if err := conn.WriteJSON(map[string]string{"type": ws.TypeLeave}); err != nil {
				return err
			}
		case "error":
			return fmt.Errorf("attempt failed: %s", f.Error)
		}
	}
}
