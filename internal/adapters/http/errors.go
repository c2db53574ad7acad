package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/horizonapp/core/internal/domain/entities"
)

// httpError maps domain sentinel errors onto transport status codes.
// Unknown errors become 500 and are left for the server's error handler to
// log.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrMediaItemNotFound),
		errors.Is(err, entities.ErrPlaylistNotFound),
		errors.Is(err, entities.ErrModuleNotFound),
		errors.Is(err, entities.ErrLessonNotFound),
		errors.Is(err, entities.ErrQuestionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrNoActiveModule),
		errors.Is(err, entities.ErrNoActiveLesson),
		errors.Is(err, entities.ErrLessonHasNoQuiz):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrQuizSealed):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrAnswerOutOfRange):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
