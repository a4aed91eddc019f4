// Command bruteforcer exercises a running solver server through its REST
// API. It creates (or resumes) a session, picks targets until none are left,
// solves each one and checks every solution against the resolve endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/ricochet/game/service"
)

const sessionFile = ".session"

func main() {
	cmd := &cli.Command{
		Name:  "bruteforcer",
		Usage: "solve every target of a session through the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "solver server URL", Sources: cli.EnvVars("RICOCHET_API_URL")},
			&cli.StringFlag{Name: "board", Usage: "board descriptor for a new session"},
			&cli.StringFlag{Name: "continue", Usage: "resume an existing session by ID"},
			&cli.StringFlag{Name: "strategy", Value: "draw", Usage: "draw (server picks) or systematic (row-major chips)"},
			&cli.IntFlag{Name: "max-targets", Usage: "stop after this many targets (0 = all)"},
			&cli.BoolFlag{Name: "v", Usage: "verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("v") {
				log.SetLevel(log.DebugLevel)
			}
			return bruteforce(ctx, cmd.String("url"), cmd.String("board"), cmd.String("continue"),
				cmd.String("strategy"), int(cmd.Int("max-targets")))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func bruteforce(ctx context.Context, serverURL, board, resume, strategyName string, maxTargets int) error {
	log.WithField("url", serverURL).Info("connecting to solver server")
	client := NewClient(serverURL)

	if resume == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			resume = strings.TrimSpace(string(data))
		}
	}

	var info *service.SessionInfo
	var err error
	if resume != "" {
		if info, err = client.Resume(ctx, resume); err != nil {
			log.WithError(err).WithField("session", resume).Warn("failed to resume session, creating a new one")
		}
	}
	if info == nil {
		info, err = client.CreateSession(ctx, board)
		if err != nil {
			return err
		}
		if err := os.WriteFile(sessionFile, []byte(client.SessionID()), 0644); err != nil {
			log.WithError(err).Warn("failed to save session ID")
		}
	}

	log.WithFields(log.Fields{
		"session": info.ID,
		"board":   info.BoardName,
		"chips":   len(info.Goals),
		"drawn":   info.TargetsUsed,
	}).Info("session ready")

	strategy, err := NewStrategy(strategyName, info)
	if err != nil {
		return err
	}

	report, err := run(ctx, client, strategy, maxTargets)
	if err != nil {
		return err
	}
	printReport(report, strategy.Name(), client.SessionID())

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d solutions failed verification", len(report.Failures))
	}
	return nil
}

func printReport(r *Report, strategy, sessionID string) {
	fields := log.Fields{
		"session":    sessionID,
		"strategy":   strategy,
		"targets":    r.Targets,
		"solved":     r.Solved,
		"unsolvable": r.Unsolvable,
	}
	if r.Solved > 0 {
		fields["avg_moves"] = fmt.Sprintf("%.2f", float64(r.TotalMoves)/float64(r.Solved))
		fields["longest"] = fmt.Sprintf("%s (%d)", r.LongestTarget, r.Longest)
	}
	log.WithFields(fields).Info("run finished")

	for _, f := range r.Failures {
		log.Error("verification failed: " + f)
	}
}
