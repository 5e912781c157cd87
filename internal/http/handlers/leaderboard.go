package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/leaderboard"
)

var reportHeader = []string{"name", "matches", "kills", "damage", "avg_kills", "winrate"}

// LeaderboardHandler ranks active players. Accepts match_type, start and end.
func LeaderboardHandler(lb *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r.URL.Query())
		if err != nil {
			RespondError(w, err)
			return
		}
		board, err := lb.Board(r.Context(), f)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, board)
	}
}

// PublicRosterHandler is the unauthenticated team page: the leaderboard plus game UIDs and role labels.
func PublicRosterHandler(lb *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r.URL.Query())
		if err != nil {
			RespondError(w, err)
			return
		}
		board, err := lb.PublicRoster(r.Context(), f)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, board)
	}
}

func ReportHandler(lb *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r.URL.Query())
		if err != nil {
			RespondError(w, err)
			return
		}
		report, err := lb.Report(r.Context(), f)
		if err != nil {
			RespondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, report)
	}
}

// ReportCSVHandler renders the same report as a CSV attachment.
func ReportCSVHandler(lb *leaderboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseFilter(r.URL.Query())
		if err != nil {
			RespondError(w, err)
			return
		}
		report, err := lb.Report(r.Context(), f)
		if err != nil {
			RespondError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment;filename=report.csv")
		cw := csv.NewWriter(w)
		rows := make([][]string, 0, len(report)+1)
		rows = append(rows, reportHeader)
		for _, agg := range report {
			rows = append(rows, []string{
				agg.Name,
				strconv.Itoa(agg.Matches),
				strconv.Itoa(agg.Kills),
				strconv.Itoa(agg.Damage),
				strconv.FormatFloat(agg.AvgKills, 'f', -1, 64),
				strconv.FormatFloat(agg.WinRate, 'f', -1, 64),
			})
		}
		if err := cw.WriteAll(rows); err != nil {
			log.Error("Failed to write CSV report", "error", err)
		}
	}
}
