package search

// UpperBound returns an optimistic estimate of the terminal stock reachable
// from stock and rate with timeLeft steps remaining. It assumes a new
// terminal producer could come online after every remaining step, so it
// never underestimates the true optimum.
func UpperBound(stock, rate, timeLeft int) int {
	if timeLeft <= 0 {
		return stock
	}
	return stock + rate*timeLeft + timeLeft*(timeLeft-1)/2
}
