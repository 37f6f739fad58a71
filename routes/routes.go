package routes

import (
	"casino/controllers/admin"
	"casino/controllers/callback/playfivers"
	"casino/controllers/user"
	"casino/helpers"
	"casino/middlewares"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

type Services struct {
	Settings    *services.SettingsStore
	Players     *services.PlayerService
	Ledger      *services.BalanceLedger
	Withdrawals *services.WithdrawalService
	Deposits    *services.DepositService
	Catalog     *services.Catalog
	Reconciler  *services.CatalogReconciler
	Launcher    *services.GameLaunchGateway
	Wallet      *services.SeamlessWallet
	Bonuses     *services.BonusService

	AggregatorName string
	AdminAPIKey    string
}

func Setup(app *fiber.App, s Services) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return helpers.JSONSuccess(c, "ok", nil)
	})

	userroutes := app.Group("/user", middlewares.PlayerContext())
	userroutes.Get("/balance", user.CheckBalance(s.Ledger))
	userroutes.Get("/transactions", user.ListTransactions(s.Ledger))
	userroutes.Get("/deposits", user.ListDeposits(s.Deposits))
	userroutes.Post("/games/launch", user.LaunchGameHandler(s.Launcher))
	userroutes.Post("/withdrawals", user.RequestWithdrawal(s.Withdrawals))
	userroutes.Get("/withdrawals", user.ListWithdrawals(s.Withdrawals))
	userroutes.Post("/bonuses/redeem", user.RedeemBonus(s.Bonuses))
	userroutes.Get("/lobby/providers", user.ListLobbyProviders(s.Catalog))
	userroutes.Get("/lobby/categories", user.ListLobbyCategories(s.Catalog))
	userroutes.Get("/lobby/games", user.ListLobbyGames(s.Catalog))

	adminroutes := app.Group("/admin", middlewares.AdminAuth(s.AdminAPIKey))
	adminroutes.Post("/catalog/sync", admin.SyncCatalog(s.Reconciler))
	adminroutes.Get("/catalog/sync/runs", admin.ListSyncRuns(s.Reconciler))
	adminroutes.Get("/providers", admin.ListProviders(s.Catalog))
	adminroutes.Patch("/providers/:id/active", admin.SetProviderActive(s.Catalog))
	adminroutes.Get("/games", admin.ListGames(s.Catalog))
	adminroutes.Patch("/games/:id/active", admin.SetGameActive(s.Catalog))
	adminroutes.Patch("/games/:id/category", admin.SetGameCategory(s.Catalog))
	adminroutes.Patch("/games/:id/flags", admin.SetGameFlags(s.Catalog))
	adminroutes.Get("/categories", admin.ListCategories(s.Catalog))
	adminroutes.Post("/categories", admin.CreateCategory(s.Catalog))
	adminroutes.Patch("/categories/:id/active", admin.SetCategoryActive(s.Catalog))

	adminroutes.Get("/withdrawals", admin.ListWithdrawals(s.Withdrawals))
	adminroutes.Post("/withdrawals/:id/approve", admin.ApproveWithdrawal(s.Withdrawals))
	adminroutes.Post("/withdrawals/:id/reject", admin.RejectWithdrawal(s.Withdrawals))

	adminroutes.Get("/players", admin.ListPlayers(s.Players))
	adminroutes.Post("/players", admin.RegisterPlayer(s.Players))
	adminroutes.Get("/players/:id", admin.GetPlayer(s.Players))
	adminroutes.Patch("/players/:id/block", admin.BlockPlayer(s.Players))
	adminroutes.Post("/players/:id/adjust", admin.AdjustBalance(s.Ledger))

	adminroutes.Get("/deposits", admin.ListDeposits(s.Deposits))
	adminroutes.Post("/deposits", admin.CreateDeposit(s.Deposits))
	adminroutes.Post("/deposits/:external_id/confirm", admin.ConfirmDeposit(s.Deposits))

	adminroutes.Get("/bonuses", admin.ListBonuses(s.Bonuses))
	adminroutes.Post("/bonuses", admin.CreateBonus(s.Bonuses))
	adminroutes.Patch("/bonuses/:id/active", admin.SetBonusActive(s.Bonuses))
	adminroutes.Delete("/bonuses/:id", admin.DeleteBonus(s.Bonuses))

	adminroutes.Get("/settings/:provider", admin.GetSettings(s.Settings))
	adminroutes.Put("/settings/:provider", admin.SaveSettings(s.Settings))

	// aggregator seamless wallet
	webhook := app.Group("/webhook/playfivers", middlewares.WebhookAgentAuth(s.Settings, s.AggregatorName))
	webhook.Post("/user_balance", playfivers.CheckUserBalance(s.Wallet))
	webhook.Post("/game_callback", playfivers.ProcessGameCallback(s.Wallet))
}
