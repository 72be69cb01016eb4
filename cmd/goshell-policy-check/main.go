package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"goshell/internal/policy"
)

type ruleWithScore struct {
	rule        policy.Rule
	specificity int
	source      string
}

type redirectWithScore struct {
	rule        policy.RedirectRule
	specificity int
	source      string
}

func main() {
	configPath := flag.String("config", "", "path to a policy file to validate")
	showAll := flag.Bool("all", false, "validate the full discovery chain (global+project+explicit) even with -config set")
	flag.Parse()

	chain, err := loadChainForCheck(*configPath, *showAll)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading policy: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Policy Chain")
	fmt.Println("============")

	var allRules []ruleWithScore
	var allRedirects []redirectWithScore

	for i, cfg := range chain.Configs {
		fmt.Printf("\n[%d] %s\n", i+1, cfg.Path)
		fmt.Printf("    policy.default = %q\n", cfg.Policy.Default)
		fmt.Printf("    %d rule(s), %d redirect rule(s)\n", len(cfg.Rules), len(cfg.Redirects))

		for _, r := range cfg.Rules {
			allRules = append(allRules, ruleWithScore{rule: r, specificity: r.Specificity(), source: cfg.Path})
		}
		for _, r := range cfg.Redirects {
			allRedirects = append(allRedirects, redirectWithScore{rule: r, specificity: r.Specificity(), source: cfg.Path})
		}
	}

	if len(allRules) > 0 {
		fmt.Println("\n\nCommand Rules (by specificity)")
		fmt.Println("==============================")
		sort.SliceStable(allRules, func(i, j int) bool {
			return allRules[i].specificity > allRules[j].specificity
		})
		for _, r := range allRules {
			fmt.Printf("\n[%d] command=%q action=%s", r.specificity, r.rule.Command, r.rule.Action)
			if len(r.rule.ArgsContains) > 0 {
				fmt.Printf(" args_contains=%v", r.rule.ArgsContains)
			}
			fmt.Println()
			fmt.Printf("    source: %s\n", filepath.Base(r.source))
		}
	}

	if len(allRedirects) > 0 {
		fmt.Println("\n\nRedirect Rules (by specificity)")
		fmt.Println("================================")
		sort.SliceStable(allRedirects, func(i, j int) bool {
			return allRedirects[i].specificity > allRedirects[j].specificity
		})
		for _, r := range allRedirects {
			fmt.Printf("\n[%d] action=%s to=%v", r.specificity, r.rule.Action, r.rule.To)
			if r.rule.Append != nil {
				fmt.Printf(" append=%v", *r.rule.Append)
			}
			fmt.Println()
			fmt.Printf("    source: %s\n", filepath.Base(r.source))
		}
	}

	fmt.Println("\n\nValidation passed.")
}

// loadChainForCheck implements the CLI surface SPEC_FULL.md documents:
// -config alone validates just that one file, mirroring cc-fmt's
// -config/-all split; -all (or no -config) pulls in the full
// global+project+explicit discovery chain.
func loadChainForCheck(configPath string, all bool) (*policy.Chain, error) {
	if configPath != "" && !all {
		cfg, err := policy.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		return &policy.Chain{Configs: []*policy.Config{cfg}}, nil
	}
	return policy.LoadChain(configPath)
}
