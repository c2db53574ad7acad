package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/horizonapp/core/internal/domain/entities"
)

// First-run sample data. Each store seeds its collection exactly once, when
// a load finds the persisted document empty or absent.

func sampleTasks() []entities.Task {
	now := time.Now()
	due := now.Add(48 * time.Hour)
	return []entities.Task{
		{
			ID:          uuid.New(),
			Title:       "Review quarterly goals",
			Description: "Walk through the Q3 objectives and flag anything at risk",
			Priority:    entities.TaskPriorityHigh,
			Category:    entities.TaskCategoryBusiness,
			CreatedAt:   now,
			DueDate:     &due,
		},
		{
			ID:          uuid.New(),
			Title:       "Morning run",
			Description: "5k along the river loop",
			Priority:    entities.TaskPriorityMedium,
			Category:    entities.TaskCategoryPersonal,
			CreatedAt:   now,
		},
		{
			ID:          uuid.New(),
			Title:       "Sketch album cover ideas",
			Description: "Three rough concepts for the side project",
			Priority:    entities.TaskPriorityLow,
			Category:    entities.TaskCategoryCreative,
			CreatedAt:   now,
		},
		{
			ID:          uuid.New(),
			Title:       "Finish Go course chapter",
			Description: "Concurrency patterns chapter plus exercises",
			Priority:    entities.TaskPriorityHigh,
			Category:    entities.TaskCategoryEducation,
			CreatedAt:   now,
		},
	}
}

func sampleMediaItems() []entities.MediaItem {
	return []entities.MediaItem{
		{
			ID:          uuid.New(),
			Title:       "Nocturnes, Op. 9",
			Description: "Chopin's three nocturnes for solo piano",
			Type:        entities.MediaTypeMusic,
			Category:    "Classical",
			Rating:      5,
			Icon:        "music.note",
		},
		{
			ID:          uuid.New(),
			Title:       "Coastal Timelapse",
			Description: "Dawn over the headland, 4k",
			Type:        entities.MediaTypeVideo,
			Category:    "Nature",
			Rating:      4,
			Icon:        "video.fill",
		},
		{
			ID:          uuid.New(),
			Title:       "Composition VIII",
			Description: "Kandinsky, 1923",
			Type:        entities.MediaTypeArt,
			Category:    "Abstract",
			Rating:      5,
			Icon:        "paintpalette.fill",
		},
		{
			ID:          uuid.New(),
			Title:       "Signals & Noise",
			Description: "Weekly episodes on engineering culture",
			Type:        entities.MediaTypePodcast,
			Category:    "Technology",
			Rating:      3,
			Icon:        "mic.fill",
		},
	}
}

func sampleModules() []entities.LearningModule {
	return []entities.LearningModule{
		{
			ID:          uuid.New(),
			Title:       "Go Fundamentals",
			Description: "Types, functions, and the standard toolchain",
			Difficulty:  entities.DifficultyBeginner,
			Category:    entities.ModuleCategoryProgramming,
			Lessons: []entities.Lesson{
				{
					ID:              uuid.New(),
					Title:           "Values and Types",
					Content:         "Go is statically typed. Every value has a type known at compile time…",
					DurationSeconds: 600,
					Quiz: &entities.Quiz{
						ID: uuid.New(),
						Questions: []entities.Question{
							{
								ID:           uuid.New(),
								Text:         "Which keyword declares a constant?",
								Options:      []string{"var", "const", "let", "static"},
								CorrectIndex: 1,
								Explanation:  "const declares a compile-time constant.",
							},
							{
								ID:           uuid.New(),
								Text:         "What is the zero value of an int?",
								Options:      []string{"nil", "0", "undefined", "-1"},
								CorrectIndex: 1,
								Explanation:  "Numeric types default to zero.",
							},
						},
					},
				},
				{
					ID:              uuid.New(),
					Title:           "Functions and Errors",
					Content:         "Functions return errors as ordinary values…",
					DurationSeconds: 900,
				},
			},
		},
		{
			ID:          uuid.New(),
			Title:       "Color Theory Basics",
			Description: "Hue, saturation, and building a palette",
			Difficulty:  entities.DifficultyBeginner,
			Category:    entities.ModuleCategoryDesign,
			Lessons: []entities.Lesson{
				{
					ID:              uuid.New(),
					Title:           "The Color Wheel",
					Content:         "Primary, secondary, and tertiary colors…",
					DurationSeconds: 480,
				},
				{
					ID:              uuid.New(),
					Title:           "Contrast and Harmony",
					Content:         "Complementary pairs and analogous groups…",
					DurationSeconds: 540,
				},
				{
					ID:              uuid.New(),
					Title:           "Building a Palette",
					Content:         "From a base hue to a five-color system…",
					DurationSeconds: 720,
				},
			},
		},
		{
			ID:          uuid.New(),
			Title:       "Spanish for Travelers",
			Description: "Essential phrases for getting around",
			Difficulty:  entities.DifficultyIntermediate,
			Category:    entities.ModuleCategoryLanguage,
			Lessons: []entities.Lesson{
				{
					ID:              uuid.New(),
					Title:           "Greetings and Introductions",
					Content:         "Hola, buenos días, ¿cómo estás?…",
					DurationSeconds: 420,
					Quiz: &entities.Quiz{
						ID: uuid.New(),
						Questions: []entities.Question{
							{
								ID:           uuid.New(),
								Text:         "How do you say \"good morning\"?",
								Options:      []string{"Buenas noches", "Buenos días", "Hasta luego"},
								CorrectIndex: 1,
								Explanation:  "Buenos días is used until midday.",
							},
						},
					},
				},
			},
		},
	}
}
