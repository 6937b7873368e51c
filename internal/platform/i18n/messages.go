package i18n

import "golang.org/x/text/language"

var bundled = map[language.Tag]map[string]string{
	language.AmericanEnglish: {
		"app.title":                  "Okito Dashboard",
		"nav.home":                   "Home",
		"nav.events":                 "Events",
		"nav.tokens":                 "API tokens",
		"nav.webhooks":               "Webhooks",
		"nav.signed_in_as":           "Signed in as %s",
		"project.select":             "Select project",
		"project.switch":             "Switch",
		"project.none":               "No projects yet",
		"project.selected":           "Project switched",
		"project.select_failed":      "Failed to switch project",
		"home.title":                 "Overview",
		"home.total_volume":          "Total volume",
		"home.payments":              "Payments",
		"home.confirmed":             "Confirmed",
		"home.failed":                "Failed",
		"home.period":                "Period",
		"home.environment":           "Environment",
		"home.created":               "Created",
		"home.wallet":                "Wallet",
		"home.wallet_verified":       "Verified",
		"home.wallet_unverified":     "Not verified",
		"home.verify_wallet":         "Verify wallet",
		"home.analytics_loading":     "Loading analytics...",
		"home.analytics_error":       "Failed to load analytics",
		"home.details_error":         "Failed to load project details",
		"home.no_project":            "Select a project to see its overview",
		"events.title":               "Events",
		"events.search":              "Search by id, session or type",
		"events.refresh":             "Refresh",
		"events.refreshing":          "Refreshing...",
		"events.refreshed":           "Events refreshed",
		"events.refresh_failed":      "Failed to refresh events",
		"events.load_failed":         "Failed to load events",
		"events.loading":             "Loading events...",
		"events.error":               "Failed to load events",
		"events.no_project":          "Select a project to view events",
		"events.empty":               "No events found",
		"events.showing":             "Showing %d-%d of %d",
		"events.col.id":              "Event",
		"events.col.type":            "Type",
		"events.col.status":          "Status",
		"events.col.amount":          "Amount",
		"events.col.currency":        "Currency",
		"events.col.created":         "Created",
		"events.detail.title":        "Event details",
		"events.detail.session":      "Session",
		"events.detail.metadata":     "Metadata",
		"events.detail.close":        "Close",
		"events.detail.not_found":    "Event not found",
		"tokens.title":               "API tokens",
		"tokens.empty":               "No API tokens",
		"tokens.error":               "Failed to load API tokens",
		"tokens.col.prefix":          "Token",
		"tokens.col.environment":     "Environment",
		"tokens.col.status":          "Status",
		"tokens.col.requests":        "Requests",
		"tokens.col.created":         "Created",
		"tokens.col.last_used":       "Last used",
		"webhooks.title":             "Webhooks",
		"webhooks.empty":             "No webhooks",
		"webhooks.error":             "Failed to load webhooks",
		"webhooks.col.url":           "URL",
		"webhooks.col.description":   "Description",
		"webhooks.col.status":        "Status",
		"webhooks.col.created":       "Created",
		"webhooks.col.last_used":     "Last used",
		"table.page":                 "Page %d of %d",
		"table.previous":             "Previous",
		"table.next":                 "Next",
		"table.never":                "Never",
		"table.preference_failed":    "Failed to save table preferences",
		"onboarding.title":           "Create your first project",
		"onboarding.body":            "Projects group your API tokens, webhooks and payment events.",
		"wallet.verified":            "Wallet verified",
		"wallet.verify_failed":       "Wallet verification failed",
		"wallet.not_connected":       "Connect a wallet first",
		"wallet.signing_unsupported": "This wallet cannot sign messages",
		"events.col.index":           "#",
		"events.col.session":         "Session",
		"events.col.metadata":        "Metadata",
		"events.search_submit":       "Search",
		"theme.toggle":               "Toggle theme",
		"tokens.loading":             "Loading API tokens...",
		"webhooks.loading":           "Loading webhooks...",
		"table.no_project":           "Select a project first",
		"home.series":                "Daily volume",
		"home.tokens":                "API tokens",
		"home.webhooks":              "Webhooks",
		"home.date":                  "Date",
		"home.volume":                "Volume",
		"home.count":                 "Count",
		"onboarding.cta":             "Go to dashboard",
		"language.label":             "Language",
	},
	language.BrazilianPortuguese: {
		"app.title":                  "Painel Okito",
		"nav.home":                   "Início",
		"nav.events":                 "Eventos",
		"nav.tokens":                 "Tokens de API",
		"nav.webhooks":               "Webhooks",
		"nav.signed_in_as":           "Conectado como %s",
		"project.select":             "Selecionar projeto",
		"project.switch":             "Trocar",
		"project.none":               "Nenhum projeto ainda",
		"project.selected":           "Projeto alterado",
		"project.select_failed":      "Falha ao trocar de projeto",
		"home.title":                 "Visão geral",
		"home.total_volume":          "Volume total",
		"home.payments":              "Pagamentos",
		"home.confirmed":             "Confirmados",
		"home.failed":                "Falharam",
		"home.period":                "Período",
		"home.environment":           "Ambiente",
		"home.created":               "Criado em",
		"home.wallet":                "Carteira",
		"home.wallet_verified":       "Verificada",
		"home.wallet_unverified":     "Não verificada",
		"home.verify_wallet":         "Verificar carteira",
		"home.analytics_loading":     "Carregando análises...",
		"home.analytics_error":       "Falha ao carregar análises",
		"home.details_error":         "Falha ao carregar detalhes do projeto",
		"home.no_project":            "Selecione um projeto para ver a visão geral",
		"events.title":               "Eventos",
		"events.search":              "Buscar por id, sessão ou tipo",
		"events.refresh":             "Atualizar",
		"events.refreshing":          "Atualizando...",
		"events.refreshed":           "Eventos atualizados",
		"events.refresh_failed":      "Falha ao atualizar eventos",
		"events.load_failed":         "Falha ao carregar eventos",
		"events.loading":             "Carregando eventos...",
		"events.error":               "Falha ao carregar eventos",
		"events.no_project":          "Selecione um projeto para ver eventos",
		"events.empty":               "Nenhum evento encontrado",
		"events.showing":             "Mostrando %d-%d de %d",
		"events.col.id":              "Evento",
		"events.col.type":            "Tipo",
		"events.col.status":          "Status",
		"events.col.amount":          "Valor",
		"events.col.currency":        "Moeda",
		"events.col.created":         "Criado em",
		"events.detail.title":        "Detalhes do evento",
		"events.detail.session":      "Sessão",
		"events.detail.metadata":     "Metadados",
		"events.detail.close":        "Fechar",
		"events.detail.not_found":    "Evento não encontrado",
		"tokens.title":               "Tokens de API",
		"tokens.empty":               "Nenhum token de API",
		"tokens.error":               "Falha ao carregar tokens de API",
		"tokens.col.prefix":          "Token",
		"tokens.col.environment":     "Ambiente",
		"tokens.col.status":          "Status",
		"tokens.col.requests":        "Requisições",
		"tokens.col.created":         "Criado em",
		"tokens.col.last_used":       "Último uso",
		"webhooks.title":             "Webhooks",
		"webhooks.empty":             "Nenhum webhook",
		"webhooks.error":             "Falha ao carregar webhooks",
		"webhooks.col.url":           "URL",
		"webhooks.col.description":   "Descrição",
		"webhooks.col.status":        "Status",
		"webhooks.col.created":       "Criado em",
		"webhooks.col.last_used":     "Último uso",
		"table.page":                 "Página %d de %d",
		"table.previous":             "Anterior",
		"table.next":                 "Próxima",
		"table.never":                "Nunca",
		"table.preference_failed":    "Falha ao salvar preferências da tabela",
		"onboarding.title":           "Crie seu primeiro projeto",
		"onboarding.body":            "Projetos agrupam seus tokens de API, webhooks e eventos de pagamento.",
		"wallet.verified":            "Carteira verificada",
		"wallet.verify_failed":       "Falha na verificação da carteira",
		"wallet.not_connected":       "Conecte uma carteira primeiro",
		"wallet.signing_unsupported": "Esta carteira não assina mensagens",
		"events.col.index":           "#",
		"events.col.session":         "Sessão",
		"events.col.metadata":        "Metadados",
		"events.search_submit":       "Buscar",
		"theme.toggle":               "Alternar tema",
		"tokens.loading":             "Carregando tokens de API...",
		"webhooks.loading":           "Carregando webhooks...",
		"table.no_project":           "Selecione um projeto primeiro",
		"home.series":                "Volume diário",
		"home.tokens":                "Tokens de API",
		"home.webhooks":              "Webhooks",
		"home.date":                  "Data",
		"home.volume":                "Volume",
		"home.count":                 "Quantidade",
		"onboarding.cta":             "Ir para o painel",
		"language.label":             "Idioma",
	},
}
