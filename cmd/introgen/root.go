// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the go-introspect library.

package main

import (
	"errors"
	"fmt"
	"go/types"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/tools/go/packages"

	"github.com/pk910/go-introspect/codegen"
)

type generateFlags struct {
	packagePath   string
	typeNames     string
	outputFile    string
	noParamTables bool
	verbose       bool
}

var flags generateFlags

var rootCmd = &cobra.Command{
	Use:   "introgen",
	Short: "Generate introspection accessors for Go types",
	Long: `introgen analyzes a Go package and generates offset based accessors
for the requested types.

The generated file registers the accessor, the constructors, the method tags
and the parameter names of each type from init. Types whose runtime layout no
longer matches the generated accessor fall back to reflection.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(&flags)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flags.packagePath, "package", "p", "", "Go package path to analyze")
	rootCmd.Flags().StringVarP(&flags.typeNames, "types", "t", "", "comma-separated list of type names to generate accessors for")
	rootCmd.Flags().StringVarP(&flags.outputFile, "output", "o", "", "output file path for generated code")
	rootCmd.Flags().BoolVar(&flags.noParamTables, "no-param-tables", false, "do not emit parameter name side-tables")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
}

func (f *generateFlags) validate() error {
	var errs []error
	if f.packagePath == "" {
		errs = append(errs, errors.New("package path is required (--package)"))
	}
	if len(splitTypeNames(f.typeNames)) == 0 {
		errs = append(errs, errors.New("type names are required (--types)"))
	}
	if f.outputFile == "" {
		errs = append(errs, errors.New("output file is required (--output)"))
	}
	return errors.Join(errs...)
}

func runGenerate(f *generateFlags) error {
	if err := f.validate(); err != nil {
		return err
	}

	if f.verbose {
		log.Printf("Analyzing package: %s", f.packagePath)
		log.Printf("Looking for types: %s", f.typeNames)
		log.Printf("Output file: %s", f.outputFile)
	}

	pkg, err := loadPackage(f.packagePath)
	if err != nil {
		return err
	}
	if f.verbose {
		log.Printf("Successfully loaded package: %s", pkg.Name)
	}

	named, err := lookupTypes(pkg.Types, splitTypeNames(f.typeNames))
	if err != nil {
		return err
	}

	opts := []codegen.CodeGenOption{
		codegen.WithSyntax(pkg.Syntax...),
		codegen.WithFileSet(pkg.Fset),
	}
	if f.noParamTables {
		opts = append(opts, codegen.WithNoParamTables())
	}

	codeGen := codegen.NewCodeGenerator(opts...)
	if err := codeGen.BuildFile(f.outputFile, named...); err != nil {
		return err
	}

	if f.verbose {
		log.Printf("Generating code...")
	}
	if err := codeGen.Generate(); err != nil {
		return err
	}

	fmt.Printf("Generated accessors for %d types in %s\n", len(named), f.outputFile)
	return nil
}

func loadPackage(path string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %s: %w", path, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %s", path)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		for _, err := range pkg.Errors {
			log.Printf("Package error: %v", err)
		}
		return nil, fmt.Errorf("package %s has errors", path)
	}
	return pkg, nil
}

func splitTypeNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// lookupTypes finds the named types in the package scope.
func lookupTypes(pkg *types.Package, names []string) ([]*types.Named, error) {
	found := make([]*types.Named, 0, len(names))
	for _, name := range names {
		obj := pkg.Scope().Lookup(name)
		if obj == nil {
			return nil, fmt.Errorf("type %s not found in package %s", name, pkg.Path())
		}
		typeObj, ok := obj.(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("object %s is not a type in package %s", name, pkg.Path())
		}
		named, ok := types.Unalias(typeObj.Type()).(*types.Named)
		if !ok {
			return nil, fmt.Errorf("type %s is not a named type", name)
		}
		found = append(found, named)
	}
	return found, nil
}
