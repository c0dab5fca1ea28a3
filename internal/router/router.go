package router

import (
	"time"

	"bancapdv/internal/config"
	"bancapdv/internal/handler"
	"bancapdv/internal/middleware"
	"bancapdv/internal/repository"
	"bancapdv/internal/service"
	"bancapdv/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	fornecedorRepo := repository.NewFornecedorRepository(db)
	despesaRepo := repository.NewDespesaRepository(db)
	relatorioRepo := repository.NewRelatorioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo, rdb)
	caixaSvc := service.NewCaixaService(caixaRepo, dispatcher)
	vendaSvc := service.NewVendaService(vendaRepo, produtoRepo, caixaSvc, dispatcher)
	fornecedorSvc := service.NewFornecedorService(fornecedorRepo)
	despesaSvc := service.NewDespesaService(despesaRepo, caixaSvc)
	relatorioSvc := service.NewRelatorioService(relatorioRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	fornecedoresH := handler.NewFornecedoresHandler(fornecedorSvc)
	despesasH := handler.NewDespesasHandler(despesaSvc)
	relatoriosH := handler.NewRelatoriosHandler(relatorioSvc)
	precoH := handler.NewPrecoHandler(produtoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/preco/:barcode", precoH.GetPrecoPorBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Perfis: operador, gerente, admin — declared per-endpoint
		v1.POST("/vendas", middleware.RequireRole("operador", "gerente", "admin"), vendasH.RegistrarVenda)
		v1.GET("/vendas", middleware.RequireRole("operador", "gerente", "admin"), vendasH.ListarVendas)
		v1.GET("/vendas/:id", middleware.RequireRole("operador", "gerente", "admin"), vendasH.ObterVenda)
		v1.DELETE("/vendas/:id", middleware.RequireRole("gerente", "admin"), vendasH.CancelarVenda)

		caixa := v1.Group("/caixa")
		{
			caixa.POST("/sessoes", middleware.RequireRole("operador", "gerente", "admin"), caixaH.AbrirSessao)
			caixa.POST("/sessoes/fechar", middleware.RequireRole("operador", "gerente", "admin"), caixaH.FecharSessao)
			caixa.GET("/sessoes/ativa", middleware.RequireRole("operador", "gerente", "admin"), caixaH.SessaoAtiva)
			caixa.GET("/sessoes/:id", middleware.RequireRole("operador", "gerente", "admin"), caixaH.ObterSessao)
			caixa.GET("/sessoes/:id/movimentacoes", middleware.RequireRole("operador", "gerente", "admin"), caixaH.ListarMovimentacoes)
			caixa.GET("/sessoes", middleware.RequireRole("gerente", "admin"), caixaH.ListarSessoes)
			caixa.POST("/movimentacoes", middleware.RequireRole("operador", "gerente", "admin"), caixaH.RegistrarMovimentacao)

			// Register management — admin only
			caixa.POST("", middleware.RequireRole("admin"), caixaH.CriarCaixa)
			caixa.GET("", middleware.RequireRole("operador", "gerente", "admin"), caixaH.ListarCaixas)
			caixa.DELETE("/:id", middleware.RequireRole("admin"), caixaH.DesativarCaixa)
		}

		// Catalog reads for everyone authenticated; writes for gerente/admin
		v1.GET("/produtos", middleware.RequireRole("operador", "gerente", "admin"), produtosH.Listar)
		v1.GET("/produtos/:id", middleware.RequireRole("operador", "gerente", "admin"), produtosH.Obter)
		v1.PATCH("/produtos/:id/estoque", middleware.RequireRole("gerente", "admin"), produtosH.AjustarEstoque)
		prods := v1.Group("/produtos", middleware.RequireRole("admin"))
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
			prods.PATCH("/:id/reativar", produtosH.Reativar)
		}

		forn := v1.Group("/fornecedores", middleware.RequireRole("gerente", "admin"))
		{
			forn.POST("", fornecedoresH.Criar)
			forn.GET("", fornecedoresH.Listar)
			forn.GET("/:id", fornecedoresH.Obter)
			forn.PUT("/:id", fornecedoresH.Atualizar)
			forn.DELETE("/:id", fornecedoresH.Desativar)
			forn.PATCH("/:id/reativar", fornecedoresH.Reativar)
		}

		desp := v1.Group("/despesas", middleware.RequireRole("gerente", "admin"))
		{
			desp.POST("", despesasH.Criar)
			desp.GET("", despesasH.Listar)
			desp.GET("/:id", despesasH.Obter)
			desp.POST("/:id/pagar", despesasH.Pagar)
		}

		rel := v1.Group("/relatorios", middleware.RequireRole("gerente", "admin"))
		{
			rel.GET("/resumo", relatoriosH.Resumo)
			rel.GET("/movimentacoes", relatoriosH.Movimentacoes)
			rel.GET("/sessoes", relatoriosH.Sessoes)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", authH.CriarUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.AtualizarUsuario)
			usuarios.DELETE("/:id", authH.DesativarUsuario)
			usuarios.PATCH("/:id/reativar", authH.ReativarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
