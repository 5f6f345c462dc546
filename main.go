package main

import (
	"flag"
	"fmt"
	"os"

	"grimm.is/wafplan/cmd"
	"grimm.is/wafplan/internal/brand"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("v", false, "Verbose - print the dry-run deployment operations")
		checkFlags.Parse(os.Args[2:])
		err = cmd.RunCheck(checkFlags.Arg(0), *verbose)

	case "compile":
		compileFlags := flag.NewFlagSet("compile", flag.ExitOnError)
		format := compileFlags.String("format", "json", "Output format: json or yaml")
		compileFlags.StringVar(format, "f", "json", "Output format (short)")
		out := compileFlags.String("out", "", "Output file (default stdout)")
		compileFlags.StringVar(out, "o", "", "Output file (short)")
		compileFlags.Parse(os.Args[2:])
		if compileFlags.NArg() < 1 {
			err = fmt.Errorf("usage: %s compile [-format json|yaml] [-out file] <policy-file>", brand.BinaryName)
			break
		}
		err = cmd.RunCompile(compileFlags.Arg(0), *format, *out)

	case "diff":
		diffFlags := flag.NewFlagSet("diff", flag.ExitOnError)
		diffFlags.Parse(os.Args[2:])
		if diffFlags.NArg() < 2 {
			err = fmt.Errorf("usage: %s diff <policy-file-a> <policy-file-b>", brand.BinaryName)
			break
		}
		err = cmd.RunDiff(diffFlags.Arg(0), diffFlags.Arg(1))

	case "scope":
		scopeFlags := flag.NewFlagSet("scope", flag.ExitOnError)
		region := scopeFlags.String("region", "", "Target region (literal or ${...} placeholder)")
		explicit := scopeFlags.String("scope", "", "Explicit scope to validate: edge or regional")
		scopeFlags.Parse(os.Args[2:])
		err = cmd.RunScope(*region, *explicit)

	case "catalog":
		err = cmd.RunCatalog()

	case "init":
		initFlags := flag.NewFlagSet("init", flag.ExitOnError)
		name := initFlags.String("name", "web-acl", "Policy name for the starter document")
		force := initFlags.Bool("force", false, "Overwrite an existing file")
		initFlags.Parse(os.Args[2:])
		path := initFlags.Arg(0)
		if path == "" {
			path = brand.ConfigFileName
		}
		err = cmd.RunInit(path, *name, *force)

	case "serve":
		serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
		addr := serveFlags.String("listen", ":8474", "Listen address")
		jsonLogs := serveFlags.Bool("json-logs", false, "Log in JSON format")
		debug := serveFlags.Bool("debug", false, "Enable debug logging")
		serveFlags.Parse(os.Args[2:])
		err = cmd.RunServe(*addr, *jsonLogs, *debug)

	case "version", "-version", "--version":
		cmd.RunVersion()

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("%s - %s\n\n", brand.Name, brand.Description)
	fmt.Printf("Usage: %s <command> [options]\n\n", brand.BinaryName)
	fmt.Println("Commands:")
	fmt.Println("  check    Validate a policy document and show the compiled summary")
	fmt.Println("  compile  Compile a policy document to JSON or YAML")
	fmt.Println("  diff     Compare the compiled output of two policy documents")
	fmt.Println("  scope    Resolve the deployment scope for a region")
	fmt.Println("  catalog  List the baseline managed rule groups")
	fmt.Println("  init     Write a starter policy document")
	fmt.Println("  serve    Run the compile HTTP API")
	fmt.Println("  version  Print version information")
}
