package stats

import (
	"encoding/json"
	"errors"
	"net/http"
)

//recentLimit is how many matches GET /results returns
const recentLimit = 20

//Results is the body of GET /results
type Results struct {
	Recent []MatchRecord `json:"recent"`
	//Wins is the all-time number of matches won by each player
	Wins [2]int64 `json:"wins"`
}

//Handler serves GET /results and GET /results/{id}
func (r *Recorder) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /results", r.serveResults)
	mux.HandleFunc("GET /results/{id}", r.serveMatch)
	return mux
}

func (r *Recorder) serveResults(w http.ResponseWriter, req *http.Request) {
	recent, err := r.Recent(recentLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	wins, err := r.Wins()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	r.writeJSON(w, Results{Recent: recent, Wins: wins})
}

func (r *Recorder) serveMatch(w http.ResponseWriter, req *http.Request) {
	rec, err := r.Get(req.PathValue("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	r.writeJSON(w, rec)
}

func (r *Recorder) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		r.Log.Warnw("could not write response", "err", err)
	}
}
