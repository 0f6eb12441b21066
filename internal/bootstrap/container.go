package bootstrap

import (
	"log"

	"github.com/Rouggerxavier/projeto-chatbot/internal/config"
	"github.com/Rouggerxavier/projeto-chatbot/internal/controller"
	"github.com/Rouggerxavier/projeto-chatbot/internal/pkg/logger"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/implementation"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/memory"
	"github.com/Rouggerxavier/projeto-chatbot/internal/service"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/ai/choice"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/ai/planner"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/ai/router"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/catalog/knowledge"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/catalog/search"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/prompt"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/recommend"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/embedding/jina"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/llm"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/llm/groq"
	pktNats "github.com/Rouggerxavier/projeto-chatbot/pkg/nats"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	CatalogController controller.ICatalogController

	// Exposed for graceful shutdown in main.go
	EventPublisher *pktNats.Publisher
	Logger         logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	aiLogger := logger.NewIsolatedLogger(cfg.App.AiLogFilePath)
	decisions := logger.NewDecisionLogger(aiLogger)

	// 2. Repositories (session state fronted by the in-memory cache)
	sessionStateRepository := memory.NewSessionStateCache(implementation.NewSessionStateRepository(db))
	productRepository := implementation.NewProductRepository(db)
	knowledgeRepository := implementation.NewKnowledgeRepository(db)
	budgetRepository := implementation.NewBudgetRepository(db)
	orderRepository := implementation.NewOrderRepository(db)
	customerRepository := implementation.NewCustomerRepository(db)
	conversationRepository := implementation.NewConversationRepository(db)

	// 3. Event bus; the assistant keeps answering when NATS is down
	eventPublisher, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("NATS unavailable, events disabled: %v", err)
		eventPublisher = nil
	}

	// 4. AI collaborators
	var provider llm.Provider
	if cfg.Ai.GroqAPIKey != "" {
		provider = groq.NewGroqProvider(cfg.Ai.GroqBaseURL, cfg.Ai.GroqAPIKey, cfg.Ai.LLMModel)
	} else {
		log.Println("GROQ_API_KEY not set, running on rule-based dialog only")
	}

	var intentRouter *router.Router
	var consultivePlanner *planner.Planner
	var chooser *choice.Interpreter
	if provider != nil {
		intentRouter = router.NewRouter(provider, cfg.Router.Threshold, cfg.Router.HardBlock)
		consultivePlanner = planner.NewPlanner(provider, cfg.Router.Threshold, cfg.Router.HardBlock)
		chooser = choice.NewInterpreter(provider)
	}

	var embedder knowledge.Embedder
	if cfg.Ai.EmbeddingAPIKey != "" {
		embedder = jina.NewProvider(cfg.Ai.EmbeddingAPIKey, cfg.Ai.EmbeddingBaseURL, cfg.Ai.EmbeddingModel)
	}

	// 5. Dialog core
	stateStore := state.NewStore(sessionStateRepository)
	prompts := prompt.NewManager(stateStore)
	searchService := search.NewService(productRepository)
	knowledgeService := knowledge.NewService(knowledgeRepository, embedder)
	synthesizer := recommend.NewSynthesizer(provider)

	// 6. Services
	cartService := service.NewCartService(budgetRepository)
	checkoutService := service.NewCheckoutService(
		stateStore,
		cartService,
		customerRepository,
		orderRepository,
		budgetRepository,
		eventPublisher,
		sysLogger,
	)
	chatService := service.NewChatService(
		stateStore,
		prompts,
		intentRouter,
		consultivePlanner,
		chooser,
		searchService,
		knowledgeService,
		synthesizer,
		cartService,
		checkoutService,
		productRepository,
		conversationRepository,
		eventPublisher,
		sysLogger,
		decisions,
	)
	catalogService := service.NewCatalogService(productRepository, knowledgeRepository)

	// 7. Controllers
	return &Container{
		ChatController:    controller.NewChatController(chatService, conversationRepository, stateStore),
		CatalogController: controller.NewCatalogController(catalogService),
		EventPublisher:    eventPublisher,
		Logger:            sysLogger,
	}
}
