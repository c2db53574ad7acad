package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

// LearningHandler exposes the module collection and the progress engine
type LearningHandler struct {
	store  ports.LearningStore
	logger *logger.Logger
}

// NewLearningHandler creates a new learning handler
func NewLearningHandler(store ports.LearningStore, logger *logger.Logger) *LearningHandler {
	return &LearningHandler{
		store:  store,
		logger: logger,
	}
}

// moduleView decorates a module with the derived unlock flags for each
// lesson. The flags are recomputed on every read, never stored.
type moduleView struct {
	entities.LearningModule
	UnlockedLessons []bool `json:"unlocked_lessons"`
}

func newModuleView(module entities.LearningModule) moduleView {
	unlocked := make([]bool, len(module.Lessons))
	for i := range module.Lessons {
		unlocked[i] = module.LessonUnlocked(i)
	}
	return moduleView{LearningModule: module, UnlockedLessons: unlocked}
}

// ListModules returns the filtered module view
func (h *LearningHandler) ListModules(c echo.Context) error {
	h.applyQueryFilter(c)
	return c.JSON(http.StatusOK, h.store.Filtered())
}

// GroupedModules returns the filtered view partitioned by category
func (h *LearningHandler) GroupedModules(c echo.Context) error {
	order, groups := h.store.GroupedByCategory()

	type group struct {
		Category entities.ModuleCategory   `json:"category"`
		Modules  []entities.LearningModule `json:"modules"`
	}
	result := make([]group, 0, len(order))
	for _, category := range order {
		result = append(result, group{Category: category, Modules: groups[category]})
	}
	return c.JSON(http.StatusOK, result)
}

// GetModule returns one module with per-lesson unlock flags
func (h *LearningHandler) GetModule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid module ID")
	}

	module, err := h.store.GetModule(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newModuleView(*module))
}

// CreateModule adds a new module
func (h *LearningHandler) CreateModule(c echo.Context) error {
	var req ports.CreateModuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.Difficulty.IsValid() || !req.Category.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid difficulty or category")
	}

	module, err := h.store.AddModule(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create module failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, module)
}

// DeleteModule removes a module
func (h *LearningHandler) DeleteModule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid module ID")
	}

	if err := h.store.DeleteModule(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete module failed", "error", err, "module_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Module deleted"})
}

// StartModule makes a module active and selects its first lesson
func (h *LearningHandler) StartModule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid module ID")
	}

	module, err := h.store.StartModule(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Start module failed", "error", err, "module_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newModuleView(*module))
}

// CompleteLesson marks a lesson of the active module completed
func (h *LearningHandler) CompleteLesson(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid lesson ID")
	}

	module, err := h.store.CompleteLesson(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Complete lesson failed", "error", err, "lesson_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newModuleView(*module))
}

// SubmitQuizAnswer records one answer on the active lesson's quiz
func (h *LearningHandler) SubmitQuizAnswer(c echo.Context) error {
	var req struct {
		QuestionID  uuid.UUID `json:"question_id" validate:"required"`
		AnswerIndex int       `json:"answer_index" validate:"min=0"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.store.SubmitQuizAnswer(c.Request().Context(), req.QuestionID, req.AnswerIndex)
	if err != nil {
		h.logger.Error("Submit quiz answer failed", "error", err, "question_id", req.QuestionID)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// NextLesson advances the active-lesson pointer
func (h *LearningHandler) NextLesson(c echo.Context) error {
	lesson, err := h.store.NextLesson(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, lesson)
}

// PreviousLesson retreats the active-lesson pointer
func (h *LearningHandler) PreviousLesson(c echo.Context) error {
	lesson, err := h.store.PreviousLesson(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, lesson)
}

// GetActive returns the current module/lesson selection
func (h *LearningHandler) GetActive(c echo.Context) error {
	type activeResponse struct {
		Module *moduleView      `json:"module"`
		Lesson *entities.Lesson `json:"lesson"`
	}

	resp := activeResponse{Lesson: h.store.ActiveLesson()}
	if module := h.store.ActiveModule(); module != nil {
		view := newModuleView(*module)
		resp.Module = &view
	}
	return c.JSON(http.StatusOK, resp)
}

// ClearFilters resets the store's filter state
func (h *LearningHandler) ClearFilters(c echo.Context) error {
	h.store.ClearFilters()
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Filters cleared"})
}

func (h *LearningHandler) applyQueryFilter(c echo.Context) {
	filter := ports.ModuleFilter{}
	applied := false

	if category := c.QueryParam("category"); category != "" {
		moduleCategory := entities.ModuleCategory(category)
		filter.Category = &moduleCategory
		applied = true
	}
	if difficulty := c.QueryParam("difficulty"); difficulty != "" {
		moduleDifficulty := entities.Difficulty(difficulty)
		filter.Difficulty = &moduleDifficulty
		applied = true
	}
	if query := c.QueryParam("q"); query != "" {
		filter.Query = query
		applied = true
	}

	if applied {
		h.store.SetFilter(filter)
	}
}
