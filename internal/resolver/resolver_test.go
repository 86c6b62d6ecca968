package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

var errConnectionReset = errors.New("connection reset")

type suggesterMock struct {
	mock.Mock
}

func (that *suggesterMock) Suggest(ctx context.Context, request entity.SuggestionRequest) (entity.Suggestion, error) {
	args := that.Called(ctx, request)

	return args.Get(0).(entity.Suggestion), args.Error(1) //nolint: forcetypeassert // test mock
}

// blockingSuggester ignores its context and answers only once released.
type blockingSuggester struct {
	release chan struct{}
}

func (that blockingSuggester) Suggest(_ context.Context, _ entity.SuggestionRequest) (entity.Suggestion, error) {
	<-that.release

	return entity.Suggestion{Move: 1}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// lastIndex always picks the last of n candidates so random fallbacks are observable.
func lastIndex(n int) int {
	return n - 1
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	// X - O / - X - / - - -
	board := entity.NewBoard().Place(0, entity.PlayerX).Place(2, entity.PlayerO).Place(4, entity.PlayerX)

	t.Run("Returns a legal suggestion", func(t *testing.T) {
		// Given: a service suggesting the open corner
		suggester := &suggesterMock{}
		suggester.On("Suggest", mock.Anything, mock.MatchedBy(func(request entity.SuggestionRequest) bool {
			return request.Board == board && request.Agent == entity.PlayerO && request.Difficulty == entity.Hard
		})).Return(entity.Suggestion{Move: 8}, nil).Once()

		resolver := New(discardLogger(), suggester, WithRand(lastIndex))

		// When: resolving the agent move
		cell := resolver.Resolve(ctx, board, entity.PlayerO, entity.Hard)

		// Then: the suggestion is used as is
		assert.Equal(t, 8, cell)
		suggester.AssertExpectations(t)
	})

	t.Run("Occupied suggestion falls back to the lowest empty cell", func(t *testing.T) {
		suggester := &suggesterMock{}
		suggester.On("Suggest", mock.Anything, mock.Anything).Return(entity.Suggestion{Move: 4}, nil)

		cell := New(discardLogger(), suggester, WithRand(lastIndex)).Resolve(ctx, board, entity.PlayerO, entity.Medium)

		assert.Equal(t, 1, cell)
	})

	t.Run("Out of range suggestion falls back to the lowest empty cell", func(t *testing.T) {
		suggester := &suggesterMock{}
		suggester.On("Suggest", mock.Anything, mock.Anything).Return(entity.Suggestion{Move: 42}, nil)

		cell := New(discardLogger(), suggester, WithRand(lastIndex)).Resolve(ctx, board, entity.PlayerO, entity.Medium)

		assert.Equal(t, 1, cell)
	})

	t.Run("Invalid answer falls back to the lowest empty cell", func(t *testing.T) {
		suggester := &suggesterMock{}
		suggester.On("Suggest", mock.Anything, mock.Anything).
			Return(entity.Suggestion{}, fmt.Errorf("move is a string: %w", apperror.ErrSuggestionInvalidAnswer))

		cell := New(discardLogger(), suggester, WithRand(lastIndex)).Resolve(ctx, board, entity.PlayerO, entity.Easy)

		assert.Equal(t, 1, cell)
	})

	t.Run("Transport failure falls back to a random empty cell", func(t *testing.T) {
		suggester := &suggesterMock{}
		suggester.On("Suggest", mock.Anything, mock.Anything).
			Return(entity.Suggestion{}, fmt.Errorf("%w: %w", apperror.ErrSuggestionTransport, errConnectionReset))

		cell := New(discardLogger(), suggester, WithRand(lastIndex)).Resolve(ctx, board, entity.PlayerO, entity.Hard)

		assert.Equal(t, 8, cell)
	})

	t.Run("Unconfigured service falls back to a random empty cell", func(t *testing.T) {
		suggester := &suggesterMock{}
		suggester.On("Suggest", mock.Anything, mock.Anything).Return(entity.Suggestion{}, apperror.ErrSuggestionUnconfigured)

		cell := New(discardLogger(), suggester, WithRand(lastIndex)).Resolve(ctx, board, entity.PlayerO, entity.Hard)

		assert.Equal(t, 8, cell)
	})

	t.Run("Missing suggester falls back to a random empty cell", func(t *testing.T) {
		cell := New(discardLogger(), nil, WithRand(lastIndex)).Resolve(ctx, board, entity.PlayerO, entity.Hard)

		assert.Equal(t, 8, cell)
	})

	t.Run("Slow service is cut off by the timeout", func(t *testing.T) {
		suggester := blockingSuggester{release: make(chan struct{})}
		t.Cleanup(func() { close(suggester.release) })

		resolver := New(discardLogger(), suggester, WithTimeout(10*time.Millisecond), WithRand(lastIndex))

		start := time.Now()
		cell := resolver.Resolve(ctx, board, entity.PlayerO, entity.Hard)

		assert.Equal(t, 8, cell)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("Full board returns no cell", func(t *testing.T) {
		full := entity.Board{
			entity.MarkX, entity.MarkO, entity.MarkX,
			entity.MarkO, entity.MarkX, entity.MarkO,
			entity.MarkO, entity.MarkX, entity.MarkO,
		}

		suggester := &suggesterMock{}
		cell := New(discardLogger(), suggester).Resolve(ctx, full, entity.PlayerO, entity.Hard)

		assert.Equal(t, -1, cell)
		suggester.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything)
	})

	t.Run("Every failure path yields a legal cell", func(t *testing.T) {
		failures := []error{
			apperror.ErrSuggestionUnconfigured,
			apperror.ErrSuggestionTransport,
			apperror.ErrSuggestionInvalidAnswer,
			context.DeadlineExceeded,
			errConnectionReset,
		}

		for _, failure := range failures {
			suggester := &suggesterMock{}
			suggester.On("Suggest", mock.Anything, mock.Anything).Return(entity.Suggestion{}, failure)

			for range 20 {
				cell := New(discardLogger(), suggester).Resolve(ctx, board, entity.PlayerO, entity.Easy)
				require.True(t, board.IsEmptyAt(cell), "failure %v gave cell %d", failure, cell)
			}
		}
	})
}

func TestNewRequest(t *testing.T) {
	board := entity.NewBoard().Place(0, entity.PlayerX).Place(4, entity.PlayerO)

	request := NewRequest(board, entity.PlayerO, entity.Medium)

	assert.Equal(t, entity.PlayerX, request.Opponent)
	assert.Contains(t, request.Prompt, `The current board is ["X", null, null, null, "O", null, null, null, null].`)
	assert.Contains(t, request.Prompt, `Your symbol is "O". The human player is "X". It is your turn.`)
	assert.Contains(t, request.Prompt, "If the opponent can win on their next move, block them.")
	assert.True(t, strings.HasSuffix(request.Prompt, "respond with ONLY a JSON object with your move's index."))
	assert.Equal(t, difficultyDirectives[entity.Medium], request.Instruction)
}
