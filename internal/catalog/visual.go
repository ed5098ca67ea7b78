package catalog

import "zyntra/internal/models"

// Visual: как план рисуется на клиенте. Выбирается по виду плана на границе API.
type Visual struct {
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	Gradient string `json:"gradient"`
	Shadow   string `json:"shadow"`
}

var visuals = map[models.PlanKind]Visual{
	models.PlanFlexible: {Icon: "wallet", Color: "text-emerald-400", Gradient: "from-emerald-500 to-teal-500", Shadow: "shadow-emerald-500/20"},
	models.PlanLocked:   {Icon: "lock", Color: "text-indigo-400", Gradient: "from-indigo-500 to-purple-500", Shadow: "shadow-indigo-500/20"},
	models.PlanDeFi:     {Icon: "zap", Color: "text-orange-400", Gradient: "from-orange-500 to-red-500", Shadow: "shadow-orange-500/20"},
	models.PlanVIP:      {Icon: "crown", Color: "text-yellow-400", Gradient: "from-yellow-500 to-amber-500", Shadow: "shadow-yellow-500/20"},
}

func VisualFor(kind models.PlanKind) Visual {
	if v, ok := visuals[kind]; ok {
		return v
	}
	return visuals[models.PlanFlexible]
}
