package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/revistete-backend/internal/services"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Consulta de usuários",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista os usuários cadastrados, mais recentes primeiro",
	Long: `Lista os usuários cadastrados ordenados pela data de criação (mais
recentes primeiro). O hash da senha nunca é exibido.`,
	Args: cobra.NoArgs,
	RunE: runUsersList,
}

func init() {
	usersListCmd.Flags().Bool("active-only", false, "somente usuários ativos")
	usersListCmd.Flags().Int("page", 1, "página (começa em 1)")
	usersListCmd.Flags().Int("page-size", 100, "itens por página (max 100)")

	usersCmd.AddCommand(usersListCmd)
	rootCmd.AddCommand(usersCmd)
}

// userRow é a visão exportada de um usuário, sem credenciais
type userRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type usersListOutput struct {
	Total int       `json:"total"`
	Users []userRow `json:"users"`
}

func runUsersList(cmd *cobra.Command, _ []string) error {
	activeOnly, _ := cmd.Flags().GetBool("active-only")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")

	db, timeout, err := database(cmd)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	userService := services.NewUserService(
		postgres.NewUserRepository(db, timeout),
		postgres.NewPostRepository(db, timeout),
		nil,
		cliLogger(cmd),
	)

	users, err := userService.ListUsers(cmd.Context(), repositories.UserFilters{
		ActiveOnly: activeOnly,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return err
	}

	out := usersListOutput{Total: len(users), Users: make([]userRow, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, toUserRow(u))
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), out)
	}
	return printUsers(cmd, out)
}

func toUserRow(u *entities.User) userRow {
	return userRow{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email.String(),
		Phone:     u.Phone,
		Address:   u.Address,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func printUsers(cmd *cobra.Command, out usersListOutput) error {
	w := cmd.OutOrStdout()
	if out.Total == 0 {
		fmt.Fprintln(w, "No hay usuarios registrados aún.")
		return nil
	}

	fmt.Fprintf(w, "Total de usuarios: %d\n\n", out.Total)

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNOMBRE\tEMAIL\tTELÉFONO\tDIRECCIÓN\tCREADO")
	for _, u := range out.Users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID,
			u.Name,
			u.Email,
			orDefault(u.Phone, "No especificado"),
			orDefault(u.Address, "No especificada"),
			u.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
