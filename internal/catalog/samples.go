package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/meusugar/server/internal/model"
)

const (
	defaultPrimaryColor   = "#FF1B6D"
	defaultSecondaryColor = "#FF6B9D"
)

// SampleProfiles is served when the profile store is unconfigured, failing or empty.
func SampleProfiles() []model.ModelProfile {
	return []model.ModelProfile{
		{
			ID:                "1",
			Name:              "Ana Silva",
			Age:               25,
			Nationality:       "Brasileira",
			CoverPhoto:        "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=400&h=600&fit=crop",
			Tags:              []string{"Conversadora", "Divertida", "Inteligente"},
			Slug:              "ana-silva",
			ShortBio:          "Adoro conversar sobre tudo!",
			LongBio:           "Sou uma pessoa extrovertida que adora conhecer pessoas novas e ter conversas interessantes sobre diversos assuntos.",
			ConversationStyle: "Amigável e descontraída",
			Interests:         []string{"Música", "Viagens", "Gastronomia"},
			Gallery:           []string{},
			Colors:            model.Colors{Primary: "#FF1B6D", Secondary: "#FF6B9D"},
		},
		{
			ID:                "2",
			Name:              "Beatriz Costa",
			Age:               23,
			Nationality:       "Portuguesa",
			CoverPhoto:        "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=400&h=600&fit=crop",
			Tags:              []string{"Carinhosa", "Atenciosa", "Romântica"},
			Slug:              "beatriz-costa",
			ShortBio:          "Sempre pronta para uma boa conversa",
			LongBio:           "Gosto de criar conexões verdadeiras e ter conversas profundas sobre a vida.",
			ConversationStyle: "Carinhosa e atenciosa",
			Interests:         []string{"Literatura", "Cinema", "Arte"},
			Gallery:           []string{},
			Colors:            model.Colors{Primary: "#9333EA", Secondary: "#C084FC"},
		},
		{
			ID:                "3",
			Name:              "Carolina Mendes",
			Age:               27,
			Nationality:       "Brasileira",
			CoverPhoto:        "https://images.unsplash.com/photo-1524504388940-b1c1722653e1?w=400&h=600&fit=crop",
			Tags:              []string{"Sofisticada", "Elegante", "Culta"},
			Slug:              "carolina-mendes",
			ShortBio:          "Conversas inteligentes e envolventes",
			LongBio:           "Aprecio boas conversas sobre cultura, negócios e experiências de vida.",
			ConversationStyle: "Sofisticada e envolvente",
			Interests:         []string{"Negócios", "Moda", "Vinhos"},
			Gallery:           []string{},
			Colors:            model.Colors{Primary: "#EC4899", Secondary: "#F472B6"},
		},
	}
}

// DefaultPackages is the price table used until an admin edits it.
func DefaultPackages() []model.TokenPackage {
	return []model.TokenPackage{
		{ID: "starter", Tokens: 50, Price: decimal.RequireFromString("19.90")},
		{ID: "basic", Tokens: 100, Price: decimal.RequireFromString("34.90"), Bonus: 10},
		{ID: "popular", Tokens: 250, Price: decimal.RequireFromString("79.90"), Bonus: 50, Popular: true},
		{ID: "premium", Tokens: 500, Price: decimal.RequireFromString("149.90"), Bonus: 100},
		{ID: "ultimate", Tokens: 1000, Price: decimal.RequireFromString("279.90"), Bonus: 250},
	}
}

// DefaultSlides seeds the in-memory carousel.
func DefaultSlides() []model.CarouselSlide {
	return []model.CarouselSlide{
		{
			ID:           "1",
			ImageURL:     "https://images.unsplash.com/photo-1529626455594-4ff0802cfb7e?w=1920&h=1080&fit=crop",
			Title:        "Bem-vindo ao Meu Sugar",
			Subtitle:     "Conversas premium com IA personalizada",
			TextPosition: "center",
		},
		{
			ID:           "2",
			ImageURL:     "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=1920&h=1080&fit=crop",
			Title:        "Conheça Nossas Modelos",
			Subtitle:     "Experiências únicas e personalizadas",
			TextPosition: "left",
		},
	}
}

// DefaultGallerySlug names the gallery served for profiles without their own.
const DefaultGallerySlug = "default"

// DefaultGalleries seeds the in-memory media store.
func DefaultGalleries() map[string][]model.MediaItem {
	return map[string][]model.MediaItem{
		DefaultGallerySlug: {
			{
				ID:        "1",
				ImageURL:  "https://images.unsplash.com/photo-1529626455594-4ff0802cfb7e?w=800&h=800&fit=crop",
				Title:     "Foto 1",
				TokenCost: defaultTokenCost,
			},
			{
				ID:        "2",
				ImageURL:  "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=800&h=800&fit=crop",
				Title:     "Foto 2",
				TokenCost: defaultTokenCost,
			},
		},
	}
}

// DefaultLegalPage is the boilerplate served when no page of type t was saved.
func DefaultLegalPage(t model.LegalType, now time.Time) model.LegalPage {
	date := now.Format("02/01/2006")
	if t == model.LegalPrivacy {
		return model.LegalPage{
			ID:    string(t),
			Type:  t,
			Title: "Política de Privacidade",
			Content: "# Política de Privacidade\n\nÚltima atualização: " + date + "\n\n" +
				"## 1. Informações Coletadas\n\nColetamos apenas as informações necessárias para fornecer nossos serviços.\n\n" +
				"## 2. Uso das Informações\n\nSuas informações são usadas exclusivamente para melhorar sua experiência.\n\n" +
				"## 3. Compartilhamento\n\nNão compartilhamos suas informações com terceiros sem seu consentimento.\n\n" +
				"## 4. Segurança\n\nImplementamos medidas de segurança para proteger seus dados.\n\n" +
				"## 5. Seus Direitos\n\nVocê tem direito de acessar, corrigir ou excluir suas informações pessoais.",
		}
	}
	return model.LegalPage{
		ID:    string(model.LegalTerms),
		Type:  model.LegalTerms,
		Title: "Termos de Uso",
		Content: "# Termos de Uso\n\nÚltima atualização: " + date + "\n\n" +
			"## 1. Aceitação dos Termos\n\nAo acessar e usar este site, você aceita e concorda em cumprir estes Termos de Uso.\n\n" +
			"## 2. Uso do Serviço\n\nEste é um serviço de entretenimento para maiores de 18 anos. O uso inadequado pode resultar no cancelamento da conta.\n\n" +
			"## 3. Conteúdo\n\nTodo o conteúdo é protegido por direitos autorais. É proibida a reprodução sem autorização.\n\n" +
			"## 4. Privacidade\n\nRespeitamos sua privacidade. Consulte nossa Política de Privacidade para mais informações.\n\n" +
			"## 5. Modificações\n\nReservamos o direito de modificar estes termos a qualquer momento.",
	}
}
