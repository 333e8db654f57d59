package websocket

import (
	"context"
	"errors"

	"github.com/wfunc/hangman-game/internal/service"
	"go.uber.org/zap"
)

// NotifyGameFinished pushes the result to the player's connections and
// tells everyone the leaderboard may have moved. It has the shape of a
// service.FinishListener.
func (h *Hub) NotifyGameFinished(_ context.Context, ev service.FinishEvent) {
	err := h.SendToUser(ev.UserID, newMessage(MessageTypeGameFinished, ev.UserID, ev))
	if err != nil && !errors.Is(err, ErrUserNotConnected) {
		h.logger.Warn("Failed to push game result", zap.String("user_id", ev.UserID), zap.Error(err))
	}
	h.Broadcast(newMessage(MessageTypeLeaderboardUpdated, "", nil))
}
