package server

import (
	"seatwise/internal/billing"
	"seatwise/internal/config"
	"seatwise/internal/handler"
	"seatwise/internal/repository"
	"seatwise/internal/service"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories bundles all persistence interfaces.
type Repositories struct {
	Organizations repository.OrganizationRepository
	Members       repository.MemberRepository
	Invitations   repository.InvitationRepository
	Subscriptions repository.SubscriptionRepository
	Sessions      repository.SessionRepository
	Users         repository.UserRepository
}

// Services bundles the application services.
type Services struct {
	Counter      *service.SeatCounter
	Entitlements *service.EntitlementService
	SeatSync     *service.SeatSyncService
	Sessions     *service.SessionService
	Invitations  *service.InvitationService
	Members      *service.MemberService
	PlanChange   *service.PlanChangeService
	Cleanup      *service.CleanupService
}

// Handlers bundles the HTTP handlers.
type Handlers struct {
	Auth       *handler.AuthHandler
	Billing    *handler.BillingHandler
	Session    *handler.SessionHandler
	Invitation *handler.InvitationHandler
	Member     *handler.MemberHandler
	Webhook    *handler.WebhookHandler
	Admin      *handler.AdminHandler
}

// InitRepositories creates the repository layer on the given database.
func InitRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Organizations: repository.NewOrganizationRepository(db),
		Members:       repository.NewMemberRepository(db),
		Invitations:   repository.NewInvitationRepository(db),
		Subscriptions: repository.NewSubscriptionRepository(db),
		Sessions:      repository.NewSessionRepository(db),
		Users:         repository.NewUserRepository(db),
	}
}

// InitServices wires the service layer.
func InitServices(cfg *config.Config, repos *Repositories, gateway billing.Gateway) *Services {
	counter := service.NewSeatCounter(repos.Members, repos.Invitations)
	entitlements := service.NewEntitlementService(counter, repos.Subscriptions)
	seatSync := service.NewSeatSyncService(counter, repos.Subscriptions, repos.Organizations, gateway, cfg.Stripe.SeatPriceID)
	sessions := service.NewSessionService(repos.Sessions, repos.Organizations, repos.Users, repos.Members)
	invitations := service.NewInvitationService(entitlements, repos.Invitations, repos.Members, repos.Users, repos.Organizations, seatSync)
	members := service.NewMemberService(repos.Members, repos.Organizations, entitlements, seatSync)
	planChange := service.NewPlanChangeService(repos.Subscriptions, repos.Members, gateway, seatSync, service.PlanPricing{
		Monthly: cfg.Stripe.MonthlyPrices,
		Annual:  cfg.Stripe.AnnualPrices,
	}, cfg.Stripe.SeatPriceID)
	cleanup := service.NewCleanupService(repos.Users, repos.Members, repos.Sessions)

	return &Services{
		Counter:      counter,
		Entitlements: entitlements,
		SeatSync:     seatSync,
		Sessions:     sessions,
		Invitations:  invitations,
		Members:      members,
		PlanChange:   planChange,
		Cleanup:      cleanup,
	}
}

// InitHandlers wires the HTTP handlers.
func InitHandlers(cfg *config.Config, repos *Repositories, services *Services) *Handlers {
	return &Handlers{
		Auth:       handler.NewAuthHandler(services.Sessions),
		Billing:    handler.NewBillingHandler(services.Entitlements, services.SeatSync, services.PlanChange, repos.Members),
		Session:    handler.NewSessionHandler(services.Sessions),
		Invitation: handler.NewInvitationHandler(services.Invitations),
		Member:     handler.NewMemberHandler(services.Members),
		Webhook:    handler.NewWebhookHandler(cfg.Stripe.WebhookSecret, repos.Subscriptions),
		Admin:      handler.NewAdminHandler(cfg.Admin.APIKey, services.Cleanup),
	}
}
