package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/maheshrc27/contentflow/internal/analytics"
	"github.com/maheshrc27/contentflow/internal/calendar"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/transfer"
	"github.com/maheshrc27/contentflow/pkg/aiproviders"
	"github.com/maheshrc27/contentflow/pkg/client"
	"github.com/maheshrc27/contentflow/pkg/scheduler"
)

const usage = `Usage: contentctl COMMAND [flags]

Commands:
  list         list scheduled content
  schedule     create or update content
  delete       delete content by id
  calendar     print a month calendar
  platforms    list platform connections
  providers    show AI provider status (use -watch to poll)
  models       list selectable models of a type
  generate     run an AI generation
  analytics    print an analytics series`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Println("Warning: Failed to load environment variables", err)
	}

	c, err := client.New(getEnv("CONTENTFLOW_URL", "http://localhost:3000"), client.WithToken(os.Getenv("CONTENTFLOW_TOKEN")))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "list":
		err = listContent(ctx, c)
	case "schedule":
		err = scheduleContent(ctx, c, args)
	case "delete":
		err = deleteContent(ctx, c, args)
	case "calendar":
		err = printCalendar(ctx, c, args)
	case "platforms":
		err = listPlatforms(ctx, c)
	case "providers":
		err = showProviders(ctx, c, args)
	case "models":
		err = listModels(ctx, c, args)
	case "generate":
		err = generate(ctx, c, args)
	case "analytics":
		err = printAnalytics(ctx, c, args)
	default:
		log.Fatalf("Unknown command: %s\n\n%s", cmd, usage)
	}

	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func listContent(ctx context.Context, c *client.Client) error {
	content, err := c.ListContent(ctx)
	if err != nil {
		return err
	}

	tw := newTable()
	fmt.Fprintln(tw, "ID\tSTATUS\tDATE\tPLATFORMS\tTITLE")
	for _, item := range content {
		date := "-"
		if item.ScheduleDate != nil {
			date = item.ScheduleDate.Local().Format("2006-01-02 15:04")
		}
		platforms := make([]string, 0, len(item.Platforms))
		for _, p := range item.Platforms {
			platforms = append(platforms, string(p))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", item.ID, item.Status, date, strings.Join(platforms, ","), item.Title)
	}
	return tw.Flush()
}

func scheduleContent(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	id := fs.Int64("id", 0, "existing content id to update")
	title := fs.String("title", "", "title")
	body := fs.String("body", "", "body text")
	platforms := fs.String("platforms", "", "comma separated platforms")
	date := fs.String("date", "", "schedule date, RFC 3339")
	media := fs.String("media", "", "media URL")
	fs.Parse(args)

	session := scheduler.NewSession(c)
	session.OpenEditor()

	var patch scheduler.Draft
	if *id != 0 {
		patch.ID = id
	}
	if *title != "" {
		patch.Title = title
	}
	if *body != "" {
		patch.Body = body
	}
	if *platforms != "" {
		parsed, err := models.ParsePlatforms(strings.Split(*platforms, ","))
		if err != nil {
			return err
		}
		patch.Platforms = parsed
	}
	if *date != "" {
		when, err := time.Parse(time.RFC3339, *date)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		patch.ScheduleDate = &when
	}
	if *media != "" {
		patch.MediaURL = media
	}
	session.UpdateDraft(patch)

	saved, err := session.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("saved content %d (%s)\n", saved.ID, saved.Status)
	return nil
}

func deleteContent(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "content id")
	fs.Parse(args)

	if *id <= 0 {
		return errors.New("-id is required")
	}
	if err := c.DeleteContent(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted content %d\n", *id)
	return nil
}

func printCalendar(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	month := fs.String("month", time.Now().Format("2006-01"), "month, YYYY-MM")
	platform := fs.String("platform", "all", "platform filter")
	fs.Parse(args)

	start, err := time.ParseInLocation("2006-01", *month, time.Local)
	if err != nil {
		return fmt.Errorf("invalid -month: %w", err)
	}
	filter, err := calendar.ParseFilter(*platform)
	if err != nil {
		return err
	}

	content, err := c.ListContent(ctx)
	if err != nil {
		return err
	}

	weeks := calendar.BuildMonthGrid(start, content, filter, time.Now())
	fmt.Println(start.Format("January 2006"))
	tw := newTable()
	fmt.Fprintln(tw, "Sun\tMon\tTue\tWed\tThu\tFri\tSat")
	for _, week := range weeks {
		cells := make([]string, 0, 7)
		for _, cell := range week {
			switch {
			case cell.Blank:
				cells = append(cells, "")
			case len(cell.Chips) > 0:
				cells = append(cells, fmt.Sprintf("%2d [%d]", cell.Day, len(cell.Chips)))
			default:
				cells = append(cells, fmt.Sprintf("%2d", cell.Day))
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func listPlatforms(ctx context.Context, c *client.Client) error {
	connections, err := c.ListPlatforms(ctx)
	if err != nil {
		return err
	}

	tw := newTable()
	fmt.Fprintln(tw, "ID\tPLATFORM\tUSERNAME\tSTATUS\tPRIMARY")
	for _, conn := range connections {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", conn.ID, models.StyleOf(conn.Platform).Label, conn.Username, conn.Status, conn.Primary)
	}
	return tw.Flush()
}

func printProviders(providers []models.AIProviderStatus) error {
	tw := newTable()
	fmt.Fprintln(tw, "PROVIDER\tSTATUS\tHOURLY\tDAILY\tUSAGE")
	for _, p := range providers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1f%%\n", p.Name, p.Status, p.Usage.Hourly, p.Usage.Daily, p.Usage.Percentage)
	}
	return tw.Flush()
}

func showProviders(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("providers", flag.ExitOnError)
	watch := fs.Duration("watch", 0, "poll interval; 0 prints once")
	fs.Parse(args)

	agg := aiproviders.NewAggregator(c, models.ModelCatalog)
	if *watch <= 0 {
		providers, err := agg.ListProviders(ctx)
		if err != nil {
			return err
		}
		return printProviders(providers)
	}

	go agg.Poll(ctx, *watch)
	ticker := time.NewTicker(*watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if providers, ok := agg.Snapshot(); ok {
				fmt.Println(time.Now().Format(time.TimeOnly))
				if err := printProviders(providers); err != nil {
					return err
				}
			}
		}
	}
}

func listModels(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	kind := fs.String("type", "text", "text, image, speech or video")
	fs.Parse(args)

	modelType, err := models.ParseModelType(*kind)
	if err != nil {
		return err
	}

	agg := aiproviders.NewAggregator(c, models.ModelCatalog)
	providers, err := agg.ListProviders(ctx)
	if err != nil {
		return err
	}

	for _, m := range agg.AvailableModelsFor(modelType, providers) {
		fmt.Printf("%s\t%s (%s)\n", m.ID, m.Name, m.Provider)
	}
	return nil
}

func generate(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	kind := fs.String("type", "text", "text, image, speech or video")
	model := fs.String("model", "", "model id")
	prompt := fs.String("prompt", "", "prompt, or the text to speak")
	temperature := fs.Float64("temperature", 0.7, "text temperature")
	size := fs.String("size", "1024x1024", "image size")
	style := fs.String("style", "", "image or video style")
	voice := fs.String("voice", "", "speech voice")
	duration := fs.Int("duration", 5, "video length in seconds")
	fs.Parse(args)

	modelType, err := models.ParseModelType(*kind)
	if err != nil {
		return err
	}

	agg := aiproviders.NewAggregator(c, models.ModelCatalog)
	var res aiproviders.Result
	switch modelType {
	case models.ModelTypeText:
		res, err = agg.GenerateText(ctx, &transfer.TextGenerationRequest{Prompt: *prompt, Model: *model, Temperature: *temperature})
	case models.ModelTypeImage:
		res, err = agg.GenerateImage(ctx, &transfer.ImageGenerationRequest{Prompt: *prompt, Model: *model, Size: *size, Style: *style})
	case models.ModelTypeSpeech:
		res, err = agg.GenerateSpeech(ctx, &transfer.SpeechGenerationRequest{Text: *prompt, Model: *model, Voice: *voice})
	case models.ModelTypeVideo:
		res, err = agg.GenerateVideo(ctx, &transfer.VideoGenerationRequest{Prompt: *prompt, Model: *model, Duration: *duration, Style: *style})
	}
	if err != nil {
		return err
	}

	if res.Text != "" {
		fmt.Println(res.Text)
	}
	if res.URL != "" {
		fmt.Println(res.URL)
	}
	return nil
}

func printAnalytics(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("analytics", flag.ExitOnError)
	days := fs.Int("range", 30, "days: 7, 30, 90, 365 or 730")
	metric := fs.String("metric", string(analytics.MetricEngagement), "impressions, engagement, clicks, followers or reach")
	platform := fs.String("platform", "all", "platform filter")
	fs.Parse(args)

	points, err := c.AnalyticsSeries(ctx, *days, analytics.Metric(*metric), *platform)
	if err != nil {
		return err
	}

	tw := newTable()
	fmt.Fprintln(tw, "DATE\tVALUE")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%d\n", p.Date, p.Value)
	}
	return tw.Flush()
}
