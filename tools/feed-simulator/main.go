// feed-simulator emulates the kill feed and detail source for local
// development: it serves a rolling batch of refs plus the matching
// killmail detail payloads, generated with gofakeit.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	port      = flag.Int("port", 8099, "Listen port")
	batchMax  = flag.Int("batch-max", 5, "Maximum refs per feed batch")
	burstSys  = flag.Int64("burst-system", 30000142, "System ID that receives a kill burst")
	burstOdds = flag.Float64("burst-odds", 0.5, "Fraction of kills placed in the burst system")
	missOdds  = flag.Float64("miss-odds", 0.1, "Fraction of refs whose detail returns 404")
)

func main() {
	flag.Parse()
	gofakeit.Seed(time.Now().UnixNano())

	sim := newSimulator(*batchMax, *burstSys, *burstOdds, *missOdds)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/feed/recent", sim.handleFeed)
	mux.HandleFunc("/api/v1/killmails/", sim.handleDetail)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("feed simulator listening on %s", addr)
	log.Printf("  batch max: %d, burst system: %d", *batchMax, *burstSys)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type simulator struct {
	mu       sync.Mutex
	gen      *generator
	batchMax int
	mails    map[int64][]byte // killmails by ID, nil value means 404
}

func newSimulator(batchMax int, burstSystem int64, burstOdds, missOdds float64) *simulator {
	return &simulator{
		gen:      newGenerator(burstSystem, burstOdds, missOdds),
		batchMax: batchMax,
		mails:    make(map[int64][]byte),
	}
}

func (s *simulator) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	refs := make([]ref, 0, s.batchMax)
	for i := 0; i < gofakeit.Number(0, s.batchMax); i++ {
		km, missing := s.gen.killmail()
		if missing {
			s.mails[km.KillmailID] = nil
		} else {
			data, _ := json.Marshal(km)
			s.mails[km.KillmailID] = data
		}
		refs = append(refs, ref{KillID: km.KillmailID, Hash: gofakeit.LetterN(16)})
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"refs": refs})
}

func (s *simulator) handleDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/killmails/"), "/")
	if len(parts) < 1 {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}
	killID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.Error(w, "bad kill ID", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	data, ok := s.mails[killID]
	s.mu.Unlock()

	if !ok || data == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

type ref struct {
	KillID int64  `json:"kill_id"`
	Hash   string `json:"hash"`
}
