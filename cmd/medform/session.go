package main

import (
	"strings"

	"medbot-backend/pkg/intake"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:5000"

func sessionStore(cmd *cobra.Command) (*intake.FileIdentity, error) {
	path, _ := cmd.Flags().GetString("session")
	if path == "" {
		var err error
		if path, err = intake.DefaultSessionPath(); err != nil {
			return nil, err
		}
	}
	return &intake.FileIdentity{Path: path}, nil
}

// serverURL prefers the flag, then the saved session, then the local default
func serverURL(cmd *cobra.Command, s *intake.Session) string {
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		return strings.TrimRight(server, "/")
	}
	if s != nil && s.Server != "" {
		return s.Server
	}
	return defaultServer
}
