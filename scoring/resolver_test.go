package scoring

import (
	"errors"
	"testing"

	"tennis-live-scoring/models"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		server      models.Side
		submitted   *models.Side
		serveType   models.ServeType
		serveResult models.ServeResult
		want        *models.Side
		wantErr     error
	}{
		{name: "plain point keeps submitted side", server: models.SideA, submitted: side(models.SideB), want: side(models.SideB)},
		{name: "first serve fault has no winner", server: models.SideA, submitted: side(models.SideB), serveType: models.ServeTypeFirst, serveResult: models.ServeResultError},
		{name: "first serve fault without side", server: models.SideB, serveType: models.ServeTypeFirst, serveResult: models.ServeResultError},
		{name: "double fault goes to receiver", server: models.SideA, serveResult: models.ServeResultDoubleFault, want: side(models.SideB)},
		{name: "double fault ignores submitted side", server: models.SideA, submitted: side(models.SideA), serveResult: models.ServeResultDoubleFault, want: side(models.SideB)},
		{name: "ace on first goes to server", server: models.SideA, serveType: models.ServeTypeFirst, serveResult: models.ServeResultAce, want: side(models.SideA)},
		{name: "ace ignores submitted side", server: models.SideB, submitted: side(models.SideA), serveType: models.ServeTypeSecond, serveResult: models.ServeResultAce, want: side(models.SideB)},
		{name: "won serve needs a side", server: models.SideA, serveType: models.ServeTypeFirst, serveResult: models.ServeResultWon, wantErr: ErrValidation},
		{name: "second serve error needs a side", server: models.SideA, serveType: models.ServeTypeSecond, serveResult: models.ServeResultError, wantErr: ErrValidation},
		{name: "missing side", server: models.SideA, wantErr: ErrValidation},
		{name: "invalid side", server: models.SideA, submitted: side(models.Side("C")), wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.server, tt.submitted, tt.serveType, tt.serveResult)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if sideString(got) != sideString(tt.want) {
				t.Fatalf("Resolve() = %s, want %s", sideString(got), sideString(tt.want))
			}
		})
	}
}
