package scoring

import "tennis-live-scoring/models"

// Resolve decides who actually won a submitted point. A nil winner with a
// nil error is a first-serve fault: the point is logged but nobody scores.
//
// Serve results take priority over the submitted side: an ace always goes to
// the server and a double fault always goes to the receiver, whatever side
// the caller sent.
func Resolve(server models.Side, submitted *models.Side, serveType models.ServeType, serveResult models.ServeResult) (*models.Side, error) {
	switch {
	case serveResult == models.ServeResultError && serveType == models.ServeTypeFirst:
		return nil, nil
	case serveResult == models.ServeResultDoubleFault:
		receiver := server.Opponent()
		return &receiver, nil
	case serveResult == models.ServeResultAce:
		s := server
		return &s, nil
	}
	if submitted == nil || !submitted.Valid() {
		return nil, Validationf("winner must be A or B, or serve_result must be ace, double-fault or a first-serve error")
	}
	w := *submitted
	return &w, nil
}
