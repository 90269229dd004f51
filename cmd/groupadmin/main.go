// Command groupadmin manages group lifecycle. Groups are read-only over
// the HTTP API; creating, editing and deleting them happens here.
//
// Usage:
//
//	groupadmin create -title "Gophers" -slug gophers [-description ...] [-admin username]
//	groupadmin list [-search term]
//	groupadmin set-admin -id 3 -admin username
//	groupadmin delete -id 3
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"plume/internal/config"
	"plume/internal/database"
	"plume/internal/repository"
	"plume/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	groups := service.NewGroupService(
		repository.NewGroupRepository(db),
		repository.NewUserRepository(db),
	)
	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		runCreate(ctx, groups, os.Args[2:])
	case "list":
		runList(ctx, groups, os.Args[2:])
	case "set-admin":
		runSetAdmin(ctx, groups, os.Args[2:])
	case "delete":
		runDelete(ctx, groups, os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: groupadmin <create|list|set-admin|delete> [flags]")
	os.Exit(2)
}

func runCreate(ctx context.Context, groups *service.GroupService, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "group title")
	slug := fs.String("slug", "", "unique URL slug")
	description := fs.String("description", "", "group description")
	admin := fs.String("admin", "", "username of the group admin (optional)")
	fs.Parse(args)

	group, err := groups.CreateGroup(ctx, service.CreateGroupInput{
		Title:         *title,
		Slug:          *slug,
		Description:   *description,
		AdminUsername: *admin,
	})
	if err != nil {
		log.Fatalf("Create failed: %v", err)
	}
	fmt.Printf("Created group %d (%s)\n", group.ID, group.Slug)
}

func runList(ctx context.Context, groups *service.GroupService, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "filter by title or description")
	fs.Parse(args)

	list, err := groups.ListGroups(ctx, 100, 0, *search)
	if err != nil {
		log.Fatalf("List failed: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPOSTS\tSUBSCRIBERS")
	for _, g := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", g.ID, g.Slug, g.Title, g.PostsCount, g.SubscribersCount)
	}
	w.Flush()
}

func runSetAdmin(ctx context.Context, groups *service.GroupService, args []string) {
	fs := flag.NewFlagSet("set-admin", flag.ExitOnError)
	id := fs.Uint("id", 0, "group ID")
	admin := fs.String("admin", "", "username of the new admin")
	fs.Parse(args)

	group, err := groups.SetAdmin(ctx, uint(*id), *admin)
	if err != nil {
		log.Fatalf("Set admin failed: %v", err)
	}
	fmt.Printf("Group %d admin updated\n", group.ID)
}

func runDelete(ctx context.Context, groups *service.GroupService, args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Uint("id", 0, "group ID")
	fs.Parse(args)

	if err := groups.DeleteGroup(ctx, uint(*id)); err != nil {
		log.Fatalf("Delete failed: %v", err)
	}
	fmt.Printf("Group %d deleted\n", *id)
}
