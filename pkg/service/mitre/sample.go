package mitre

import "github.com/secmon-lab/themis/pkg/domain/model"

// SampleTechniques returns the fixed fallback technique set served when the
// remote feed is unavailable. Exactly 15 entries.
func SampleTechniques() []*model.Technique {
	return []*model.Technique{
		{
			ID:          "T1566",
			Name:        "Phishing",
			Description: "Adversaries may send phishing messages to gain access to victim systems.",
			Tactic:      "initial-access",
			TacticName:  "Initial Access",
			URL:         "https://attack.mitre.org/techniques/T1566/",
		},
		{
			ID:          "T1190",
			Name:        "Exploit Public-Facing Application",
			Description: "Adversaries may attempt to exploit a weakness in an Internet-facing host or system.",
			Tactic:      "initial-access",
			TacticName:  "Initial Access",
			URL:         "https://attack.mitre.org/techniques/T1190/",
		},
		{
			ID:          "T1078",
			Name:        "Valid Accounts",
			Description: "Adversaries may obtain and abuse credentials of existing accounts.",
			Tactic:      "defense-evasion",
			TacticName:  "Defense Evasion",
			URL:         "https://attack.mitre.org/techniques/T1078/",
		},
		{
			ID:          "T1059",
			Name:        "Command and Scripting Interpreter",
			Description: "Adversaries may abuse command and script interpreters to execute commands.",
			Tactic:      "execution",
			TacticName:  "Execution",
			URL:         "https://attack.mitre.org/techniques/T1059/",
		},
		{
			ID:          "T1053",
			Name:        "Scheduled Task/Job",
			Description: "Adversaries may abuse task scheduling functionality for initial or recurring execution.",
			Tactic:      "persistence",
			TacticName:  "Persistence",
			URL:         "https://attack.mitre.org/techniques/T1053/",
		},
		{
			ID:          "T1055",
			Name:        "Process Injection",
			Description: "Adversaries may inject code into processes to evade process-based defenses.",
			Tactic:      "privilege-escalation",
			TacticName:  "Privilege Escalation",
			URL:         "https://attack.mitre.org/techniques/T1055/",
		},
		{
			ID:          "T1562",
			Name:        "Impair Defenses",
			Description: "Adversaries may maliciously modify components of a victim environment to hinder defenses.",
			Tactic:      "defense-evasion",
			TacticName:  "Defense Evasion",
			URL:         "https://attack.mitre.org/techniques/T1562/",
		},
		{
			ID:          "T1003",
			Name:        "OS Credential Dumping",
			Description: "Adversaries may attempt to dump credentials to obtain account login material.",
			Tactic:      "credential-access",
			TacticName:  "Credential Access",
			URL:         "https://attack.mitre.org/techniques/T1003/",
		},
		{
			ID:          "T1110",
			Name:        "Brute Force",
			Description: "Adversaries may use brute force techniques to gain access to accounts.",
			Tactic:      "credential-access",
			TacticName:  "Credential Access",
			URL:         "https://attack.mitre.org/techniques/T1110/",
		},
		{
			ID:          "T1082",
			Name:        "System Information Discovery",
			Description: "An adversary may attempt to get detailed information about the operating system and hardware.",
			Tactic:      "discovery",
			TacticName:  "Discovery",
			URL:         "https://attack.mitre.org/techniques/T1082/",
		},
		{
			ID:          "T1021",
			Name:        "Remote Services",
			Description: "Adversaries may use valid accounts to log into remote services and move laterally.",
			Tactic:      "lateral-movement",
			TacticName:  "Lateral Movement",
			URL:         "https://attack.mitre.org/techniques/T1021/",
		},
		{
			ID:          "T1105",
			Name:        "Ingress Tool Transfer",
			Description: "Adversaries may transfer tools or other files from an external system into a compromised environment.",
			Tactic:      "command-and-control",
			TacticName:  "Command And Control",
			URL:         "https://attack.mitre.org/techniques/T1105/",
		},
		{
			ID:          "T1041",
			Name:        "Exfiltration Over C2 Channel",
			Description: "Adversaries may steal data by exfiltrating it over an existing command and control channel.",
			Tactic:      "exfiltration",
			TacticName:  "Exfiltration",
			URL:         "https://attack.mitre.org/techniques/T1041/",
		},
		{
			ID:          "T1486",
			Name:        "Data Encrypted for Impact",
			Description: "Adversaries may encrypt data on target systems to interrupt availability.",
			Tactic:      "impact",
			TacticName:  "Impact",
			URL:         "https://attack.mitre.org/techniques/T1486/",
		},
		{
			ID:          "T1133",
			Name:        "External Remote Services",
			Description: "Adversaries may leverage external-facing remote services to initially access a network.",
			Tactic:      "initial-access",
			TacticName:  "Initial Access",
			URL:         "https://attack.mitre.org/techniques/T1133/",
		},
	}
}
