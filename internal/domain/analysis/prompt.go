package analysis

import (
	"os"
	"strings"
)

// PromptOverrides allows operators to replace the built-in analysis prompt
// wholesale, per sport. A readable file wins over literal text.
type PromptOverrides struct {
	FootballFile   string
	FootballText   string
	BasketballFile string
	BasketballText string
}

const footballSystemPrompt = "你是一位资深足球比赛分析师，基于提供的资料进行专业判断，并严格以 JSON 输出。\n" +
	"分析维度：\n" +
	"1) 赛程与战意/体能：赛程密度、轮换深度、是否关键战、是否为后续赛事留力。\n" +
	"2) 技战术与阵型：攻守平衡、边路/中路推进、压迫/反击、定位球强弱与对位。\n" +
	"3) 人员与伤停：核心球员状态、伤停名单、首发可用性、替补厚度。\n" +
	"4) 裁判尺度：历史判罚倾向、越位/手球尺度、是否易出现点球或大量黄牌。\n" +
	"5) 庄家思路与市场：盘赔变化、冷热度、可能的认知陷阱与大众情绪利用。\n" +
	"6) 投注量结构：单边投注比例、临场波动，给出逆向或规避思路。\n\n" +
	"JSON 字段：\n" +
	"- summary: 精炼摘要。\n" +
	"- angles: { schedule_motivation, tactics_style, referee, bookmaker_psychology, betting_volume }。\n" +
	"- deep_analysis: 逻辑链条清晰的深度分析文本，含不确定性。\n" +
	"- predictions: { score: 比分预测（如 '2-1'），trend_note: 角球/走势相关预测 }。\n" +
	"- betting_advice: 投注建议（方案/止损/风险点，兼顾保守与激进）。\n" +
	"- probability: 0-1 之间小数。\n" +
	"- disclaimers: 风险与边界提示（不构成投资建议）。\n" +
	"只输出 JSON。"

const basketballSystemPrompt = "你是一位资深篮球比赛分析师，基于提供的资料进行专业判断，并严格以 JSON 输出。\n" +
	"分析维度：\n" +
	"1) 赛程与体能：背靠背/三连战、旅途与时差、轮换人数、负荷管理。\n" +
	"2) 战术与节奏：进攻/防守效率（ORtg/DRtg 简述）、节奏 Pace、挡拆/单打/外线投射结构。\n" +
	"3) 人员与匹配：主力可用性、对位身高与对抗、替补火力、犯规与罚球。\n" +
	"4) 裁判尺度：吹罚严格度、三分/突破的受益程度、技术犯规倾向。\n" +
	"5) 庄家思路与市场：让分/总分变化、公众倾向、可能的陷阱。\n" +
	"6) 投注量结构：单边比例与临场波动，给出顺势或逆向思路。\n\n" +
	"JSON 字段：\n" +
	"- summary: 精炼摘要。\n" +
	"- angles: { schedule_motivation, tactics_style, referee, bookmaker_psychology, betting_volume }。\n" +
	"- deep_analysis: 逻辑链条清晰的深度分析文本，含不确定性。\n" +
	"- predictions: { score: 总分趋势+分差判断（如 '大分/小分+分差范围'），trend_note: 节奏/篮板/失误相关趋势 }。\n" +
	"- betting_advice: 投注建议（方案/止损/风险点，兼顾保守与激进）。\n" +
	"- probability: 0-1 之间小数。\n" +
	"- disclaimers: 风险与边界提示（不构成投资建议）。\n" +
	"只输出 JSON。"

// SystemPrompt resolves the analysis system prompt for a sport, applying
// overrides in file-over-text precedence. Blank overrides are ignored.
func (o PromptOverrides) SystemPrompt(sport Sport) string {
	file, text := o.FootballFile, o.FootballText
	builtin := footballSystemPrompt
	if sport == SportBasketball {
		file, text = o.BasketballFile, o.BasketballText
		builtin = basketballSystemPrompt
	}

	if file != "" {
		if content, err := os.ReadFile(file); err == nil && strings.TrimSpace(string(content)) != "" {
			return string(content)
		}
	}
	if strings.TrimSpace(text) != "" {
		return text
	}
	return builtin
}
