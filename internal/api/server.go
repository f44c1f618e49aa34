package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/contestify/contest-api/docs"
	v1 "github.com/contestify/contest-api/internal/api/handler/v1"
	"github.com/contestify/contest-api/internal/api/middleware"
	"github.com/contestify/contest-api/internal/config"
	"github.com/contestify/contest-api/internal/payment"
	"github.com/contestify/contest-api/internal/repository"
	"github.com/contestify/contest-api/internal/repository/dao"
	"github.com/contestify/contest-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// Handlers groups every v1 handler mounted by the server.
type Handlers struct {
	Auth        *v1.AuthHandler
	User        *v1.UserHandler
	Contest     *v1.ContestHandler
	Payment     *v1.PaymentHandler
	Submission  *v1.SubmissionHandler
	Admin       *v1.AdminHandler
	AuthChecker gin.HandlerFunc
}

func NewServer(conf *config.AppConfig, db *gorm.DB, locker service.Locker) *Server {
	s := newServer(conf)
	s.MountHandlers(s.initHandlers(db, locker))

	return s
}

func newServer(conf *config.AppConfig) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	return s
}

func (s *Server) initHandlers(db *gorm.DB, locker service.Locker) Handlers {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	contestRepo := repository.NewContestRepository(dao.NewContestDAO(db))
	submissionRepo := repository.NewSubmissionRepository(dao.NewSubmissionDAO(db))
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))

	policy := service.NewAdminPolicy(userRepo)
	pageSize := s.Config.API.PageSize

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo, policy, pageSize)
	contestSvc := service.NewContestService(contestRepo, submissionRepo, policy, pageSize)
	registrationSvc := service.NewRegistrationService(
		contestRepo,
		paymentRepo,
		payment.NewStripeProvider(s.Config.Stripe),
		locker,
		s.Config.Stripe,
	)
	submissionSvc := service.NewSubmissionService(submissionRepo, contestRepo, userRepo)

	return Handlers{
		Auth:        v1.NewAuthHandler(s.Config.API, authSvc),
		User:        v1.NewUserHandler(userSvc),
		Contest:     v1.NewContestHandler(contestSvc),
		Payment:     v1.NewPaymentHandler(registrationSvc),
		Submission:  v1.NewSubmissionHandler(submissionSvc),
		Admin:       v1.NewAdminHandler(userSvc, contestSvc),
		AuthChecker: middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT(),
	}
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ZapLogger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h Handlers) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", h.Auth.HandleSignup)
		auth.POST("/auth/login", h.Auth.HandleLogin)
	}

	api := s.Router.Group(basePath, h.AuthChecker)
	{
		api.GET("/users/me", h.User.HandleGetMe)
		api.PATCH("/users/me", h.User.HandleUpdateMe)

		api.GET("/contests", h.Contest.HandleListContests)
		api.POST("/contests", h.Contest.HandleCreateContest)
		api.GET("/contests/participated", h.Contest.HandleListParticipated)
		api.GET("/contests/won", h.Contest.HandleListWon)
		api.GET("/contests/creator/:email", h.Contest.HandleListByCreator)
		api.GET("/contests/:contestID", h.Contest.HandleGetContest)
		api.PATCH("/contests/:contestID", h.Contest.HandleUpdateContest)
		api.DELETE("/contests/:contestID", h.Contest.HandleDeleteContest)

		api.POST("/contests/:contestID/checkout", h.Payment.HandleCreateCheckout)
		api.POST("/payments/confirm", h.Payment.HandleConfirmPayment)
		api.GET("/payments/me", h.Payment.HandleListMyPayments)

		api.POST("/contests/:contestID/submissions", h.Submission.HandleSubmit)
		api.GET("/contests/:contestID/submissions", h.Submission.HandleListForContest)
		api.GET("/submissions/creator", h.Submission.HandleListForCreator)
		api.GET("/submissions/me", h.Submission.HandleListMine)
		api.PATCH("/submissions/:submissionID/winner", h.Submission.HandleDeclareWinner)
	}

	admin := s.Router.Group(basePath+"/admin", h.AuthChecker)
	{
		admin.GET("/users", h.Admin.HandleListUsers)
		admin.PATCH("/users/:email/role", h.Admin.HandleChangeRole)
		admin.GET("/contests", h.Admin.HandleListContests)
		admin.PATCH("/contests/:contestID/approve", h.Admin.HandleApproveContest)
		admin.PATCH("/contests/:contestID/reject", h.Admin.HandleRejectContest)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Contestify API"
	docs.SwaggerInfo.Description = "Contest hosting backend: lifecycle, paid registration, submissions and winners."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
