package knowledge

import (
	"strings"

	"github.com/asanchezr/consultor/internal/domain"
)

// Signal is one named boolean feature with its trigger phrases. Triggers are
// matched as substrings against the normalized (lowercased, accent-stripped)
// requirements text, so they are written accent-free here.
type Signal struct {
	Name     string
	Triggers []string
}

// Signals is the fixed detection vocabulary, in iteration order. The first
// block feeds the methodology scorer; the rest drive team, phase and budget
// adjustments in the planner.
var Signals = []Signal{
	{"uncertainty", []string{"incertidumbre", "cambiante", "mvp", "hipotesis", "descubrimiento", "prototipo"}},
	{"ops_flow", []string{"operacion", "soporte", "24/7", "24x7", "flujo continuo", "incidencias", "tickets"}},
	{"fixed_deadline", []string{"fecha limite", "plazo fijo", "deadline"}},
	{"fixed_budget", []string{"presupuesto fijo", "tope de presupuesto", "coste cerrado"}},
	{"regulated", []string{"pci", "gdpr", "hipaa", "iso 27001", "regulado", "auditor"}},
	{"realtime", []string{"tiempo real", "realtime", "websocket", "baja latencia"}},
	{"payments", []string{"pagos", "stripe", "redsys", "paypal", "pasarela", "checkout"}},
	{"integrations", []string{"api", "apis", "webhook", "integracion"}},
	{"mobile", []string{"app", "android", "ios", "movil", "mobile"}},
	{"ml_ai", []string{"ml", "machine learning", "ia", "modelo"}},
	{"large_org", []string{"varios equipos", "escala", "portafolio", "program increment", "safe"}},
	{"many_features", []string{"modulos", "features", "catalogo", "muchas funcionalidades"}},
	{"quality_critical", []string{"seguridad", "fraude", "critico", "alta calidad", "tdd"}},
	{"small_project", []string{"proyecto pequeno", "alcance reducido", "equipo pequeno"}},

	{"admin", []string{"admin", "backoffice", "panel", "administracion", "dashboard"}},
	{"iot", []string{"iot", "sensores", "dispositivos conectados", "telemetria"}},
	{"high_availability", []string{"alta disponibilidad", "99.9", "sla", "tolerancia a fallos"}},
	{"migration", []string{"migracion", "sistema legado", "legacy"}},
	{"analytics", []string{"analitica", "reportes", "business intelligence", "kpis"}},

	{"fintech", []string{"fintech", "banco", "bancario", "neobanco", "prestamos", "inversiones", "criptomonedas", "wallet"}},
	{"insurtech", []string{"insurtech", "seguros", "aseguradora", "polizas", "siniestros"}},
	{"healthtech", []string{"healthtech", "salud", "clinica", "hospital", "pacientes", "telemedicina", "historia clinica"}},
	{"edtech", []string{"edtech", "educacion", "cursos", "alumnos", "elearning", "plataforma educativa"}},
	{"logistics", []string{"logistica", "flota", "rutas", "almacen", "envios", "tracking"}},
	{"retail", []string{"retail", "ecommerce", "tienda online", "comercio electronico", "inventario"}},
	{"travel", []string{"viajes", "reservas", "hoteles", "vuelos", "turismo"}},
	{"food_delivery", []string{"delivery", "restaurantes", "comida a domicilio", "repartidores"}},
	{"gaming", []string{"juego", "videojuego", "gaming", "multijugador"}},
	{"media", []string{"streaming", "video bajo demanda", "contenidos", "cdn"}},
	{"erp", []string{"erp", "planificacion de recursos", "contabilidad", "facturacion", "nominas"}},
	{"legal_tech", []string{"legaltech", "contratos", "despacho", "juridico", "notaria"}},
	{"startup", []string{"startup", "emprendimiento", "ronda de inversion", "producto minimo viable"}},
}

// Detect maps each signal to 1.0 if any trigger phrase appears in the text,
// else 0.0. Empty input yields an all-zero map.
func Detect(text string) map[string]float64 {
	t := domain.Normalize(text)
	out := make(map[string]float64, len(Signals))
	for _, sig := range Signals {
		out[sig.Name] = 0.0
		for _, trig := range sig.Triggers {
			if strings.Contains(t, trig) {
				out[sig.Name] = 1.0
				break
			}
		}
	}
	return out
}

// Fired returns the names of active signals in vocabulary order.
func Fired(signals map[string]float64) []string {
	var out []string
	for _, sig := range Signals {
		if signals[sig.Name] == 1.0 {
			out = append(out, sig.Name)
		}
	}
	return out
}
