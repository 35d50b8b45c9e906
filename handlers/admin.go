package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"

	"coin-economy-system/middleware"
	"coin-economy-system/models"
	"coin-economy-system/services"
	"coin-economy-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupAdminRoutes(app *fiber.App, adminService *services.AdminService, economy *services.EconomyService, withdrawalService *services.WithdrawalService) {
	// 🔓 Login is the only public admin route
	app.Post("/api/admin/login", func(c *fiber.Ctx) error {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&body); err != nil || body.Username == "" || body.Password == "" {
			return badRequest(c, "username and password are required")
		}

		admin, err := adminService.Authenticate(body.Username, body.Password)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid credentials",
				"code":  "invalid_credentials",
			})
		}
		token, err := middleware.SignAdminToken(admin.ID, admin.Role)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"token": token,
			"admin": admin,
		})
	})

	secured := app.Group("/api/admin", middleware.AdminAuth())

	secured.Get("/dashboard", func(c *fiber.Ctx) error {
		stats, recent, err := adminService.Dashboard()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"stats":               stats,
			"recent_transactions": recent,
		})
	})

	secured.Get("/users", func(c *fiber.Ctx) error {
		users, total, err := adminService.ListUsers(
			c.QueryInt("page", 1),
			c.QueryInt("limit", 20),
			c.Query("search"),
		)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"users": users,
			"total": total,
		})
	})

	secured.Post("/users/:id/award", func(c *fiber.Ctx) error {
		var body struct {
			Amount int64  `json:"amount"`
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&body); err != nil || body.Amount == 0 {
			return badRequest(c, "a non-zero amount is required")
		}
		if body.Reason == "" {
			body.Reason = "Manual adjustment by admin"
		}

		balance, err := economy.AwardCoins(c.Params("id"), body.Amount, body.Reason)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"coins": balance})
	})

	// Tasks
	secured.Post("/tasks", func(c *fiber.Ctx) error {
		task := models.Task{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Type:        models.TaskType(c.FormValue("type", string(models.TaskTypeSocial))),
			Platform:    models.TaskPlatform(c.FormValue("platform")),
			URL:         c.FormValue("url"),
			Active:      c.FormValue("active", "true") == "true",
		}
		task.Reward, _ = strconv.ParseInt(c.FormValue("reward"), 10, 64)

		if iconURL, err := storeIcon(c, "tasks"); err != nil {
			return fail(c, err)
		} else if iconURL != "" {
			task.IconURL = iconURL
		}

		if err := adminService.CreateTask(&task); err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	})

	secured.Put("/tasks/:id", func(c *fiber.Ctx) error {
		iconURL, err := storeIcon(c, "tasks")
		if err != nil {
			return fail(c, err)
		}

		task, err := adminService.UpdateTask(c.Params("id"), func(t *models.Task) {
			applyFormValue(c, "title", func(v string) { t.Title = v })
			applyFormValue(c, "description", func(v string) { t.Description = v })
			applyFormValue(c, "type", func(v string) { t.Type = models.TaskType(v) })
			applyFormValue(c, "platform", func(v string) { t.Platform = models.TaskPlatform(v) })
			applyFormValue(c, "url", func(v string) { t.URL = v })
			applyFormValue(c, "reward", func(v string) { t.Reward, _ = strconv.ParseInt(v, 10, 64) })
			applyFormValue(c, "active", func(v string) { t.Active = v == "true" })
			if iconURL != "" {
				t.IconURL = iconURL
			}
		})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(task)
	})

	// Games
	secured.Post("/games", func(c *fiber.Ctx) error {
		game := models.Game{
			Name:        c.FormValue("name"),
			Description: c.FormValue("description"),
			Active:      c.FormValue("active", "true") == "true",
		}
		game.MinReward, _ = strconv.ParseInt(c.FormValue("min_reward"), 10, 64)
		game.MaxReward, _ = strconv.ParseInt(c.FormValue("max_reward"), 10, 64)

		if iconURL, err := storeIcon(c, "games"); err != nil {
			return fail(c, err)
		} else if iconURL != "" {
			game.IconURL = iconURL
		}

		if err := adminService.CreateGame(&game); err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(game)
	})

	secured.Put("/games/:id", func(c *fiber.Ctx) error {
		iconURL, err := storeIcon(c, "games")
		if err != nil {
			return fail(c, err)
		}

		game, err := adminService.UpdateGame(c.Params("id"), func(g *models.Game) {
			applyFormValue(c, "name", func(v string) { g.Name = v })
			applyFormValue(c, "description", func(v string) { g.Description = v })
			applyFormValue(c, "min_reward", func(v string) { g.MinReward, _ = strconv.ParseInt(v, 10, 64) })
			applyFormValue(c, "max_reward", func(v string) { g.MaxReward, _ = strconv.ParseInt(v, 10, 64) })
			applyFormValue(c, "active", func(v string) { g.Active = v == "true" })
			if iconURL != "" {
				g.IconURL = iconURL
			}
		})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(game)
	})

	// Tournaments
	secured.Post("/tournaments", func(c *fiber.Ctx) error {
		return upsertTournament(c, adminService, "")
	})
	secured.Put("/tournaments/:id", func(c *fiber.Ctx) error {
		return upsertTournament(c, adminService, c.Params("id"))
	})

	// Withdrawals
	secured.Get("/withdrawals/pending", func(c *fiber.Ctx) error {
		pending, err := withdrawalService.Pending()
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"withdrawals": pending})
	})

	secured.Post("/withdrawals/:id/process", func(c *fiber.Ctx) error {
		var body struct {
			Decision string `json:"decision"`
			Remarks  string `json:"remarks"`
		}
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "invalid body")
		}
		if body.Decision != models.WithdrawalApproved && body.Decision != models.WithdrawalRejected {
			return badRequest(c, "decision must be approved or rejected")
		}

		w, err := withdrawalService.Process(c.Params("id"), middleware.AdminID(c), body.Decision, body.Remarks)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(w)
	})

	// Admin management, superadmin only
	superadmin := secured.Group("/admins", middleware.SuperadminOnly())
	superadmin.Post("/", func(c *fiber.Ctx) error {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Email    string `json:"email"`
			Role     string `json:"role"`
		}
		if err := c.BodyParser(&body); err != nil || body.Username == "" || body.Password == "" {
			return badRequest(c, "username and password are required")
		}

		admin, err := adminService.CreateAdmin(middleware.AdminRole(c), body.Username, body.Password, body.Email, body.Role)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(admin)
	})
}

func upsertTournament(c *fiber.Ctx, adminService *services.AdminService, id string) error {
	var body struct {
		Name          *string `json:"name"`
		Description   *string `json:"description"`
		DayOfWeek     *string `json:"day_of_week"`
		StartTime     *string `json:"start_time"`
		DurationHours *int    `json:"duration_hours"`
		EntryFee      *int64  `json:"entry_fee"`
		PrizePool     *int64  `json:"prize_pool"`
		Active        *bool   `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}

	t, err := adminService.UpsertTournament(id, func(t *models.Tournament) {
		if body.Name != nil {
			t.Name = *body.Name
		}
		if body.Description != nil {
			t.Description = *body.Description
		}
		if body.DayOfWeek != nil {
			t.DayOfWeek = *body.DayOfWeek
		}
		if body.StartTime != nil {
			t.StartTime = *body.StartTime
		}
		if body.DurationHours != nil {
			t.DurationHours = *body.DurationHours
		}
		if body.EntryFee != nil {
			t.EntryFee = *body.EntryFee
		}
		if body.PrizePool != nil {
			t.PrizePool = *body.PrizePool
		}
		if body.Active != nil {
			t.Active = *body.Active
		}
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(t)
}

// storeIcon saves an optional "icon" multipart file and returns its URL,
// or "" when no file was attached.
func storeIcon(c *fiber.Ctx, kind string) (string, error) {
	fileHeader, err := c.FormFile("icon")
	if err != nil {
		return "", nil
	}
	key := fmt.Sprintf("icons/%s/%s%s", kind, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	return utils.StoreAsset(fileHeader, key)
}

func applyFormValue(c *fiber.Ctx, field string, set func(string)) {
	if v := c.FormValue(field); v != "" {
		set(v)
	}
}
