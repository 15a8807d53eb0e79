package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Alexis12119/chat-profanity-detector/pkg/clientip"
	"golang.org/x/time/rate"
)

// Chat history limits, per IP. Authenticated callers get 30/min with burst
// 20 so rapid room switching doesn't 429; anonymous callers get 10/min with
// burst 5.
var (
	historyAuthLimiters = newIPLimiterPool(rate.Limit(0.5), 20)
	historyAnonLimiters = newIPLimiterPool(rate.Limit(0.17), 5)
)

func historyBurst(authenticated bool) int {
	if authenticated {
		return 20
	}
	return 5
}

func hasBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && len(strings.TrimPrefix(auth, "Bearer ")) > 0
}

// ChatHistoryRateLimit applies rate limiting only to GET /api/chat/history.
func ChatHistoryRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !strings.HasPrefix(r.URL.Path, "/api/chat/history") {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientip.RealClientIP(r)
		auth := hasBearerToken(r)

		pool := historyAnonLimiters
		if auth {
			pool = historyAuthLimiters
		}

		limit := historyBurst(auth)
		if !pool.get(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Too many chat history requests. Please slow down."}`))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		next.ServeHTTP(w, r)
	})
}
